// Package chain defines the light wallet server capabilities shared by the sync pipeline and the
// server client.
package chain

import (
	"context"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

// BlockStream yields compact blocks in server order and returns io.EOF after the last one.
type BlockStream interface {
	Recv() (model.CompactBlock, error)
}

// RawTxStream yields raw transactions and returns io.EOF when the server closes the stream.
type RawTxStream interface {
	Recv() (model.RawTransaction, error)
}

// Source is the light wallet server as seen by the sync pipeline.
type Source interface {
	LatestHeight(ctx context.Context) (uint64, error)
	// BlockRange streams blocks start..end inclusive. start may be above end.
	BlockRange(ctx context.Context, start, end uint64) (BlockStream, error)
	Transaction(ctx context.Context, txid model.TxID) (model.RawTransaction, error)
	TreeState(ctx context.Context, height uint64) (model.TreeState, error)
	TaddressTransactions(ctx context.Context, address string, start, end uint64) (RawTxStream, error)
	MempoolStream(ctx context.Context) (RawTxStream, error)
	SendTransaction(ctx context.Context, raw []byte) (model.TxID, error)
	LightdInfo(ctx context.Context) (model.ServerInfo, error)
}
