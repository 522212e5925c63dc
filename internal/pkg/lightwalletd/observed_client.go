// Package lightwalletd is the light wallet server client used by the sync pipeline. Every call is
// observed and failures are reported as *model.NetworkError.
package lightwalletd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/chain"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"github.com/zcash/lightwalletd/walletrpc"
)

// ErrRejected is returned when the server refuses to broadcast a transaction.
var ErrRejected = errors.New("transaction rejected")

type ObservedClient struct {
	client     StreamerClient
	rpcMetrics RPCMetrics
}

var _ chain.Source = (*ObservedClient)(nil)

func NewObservedClient(client StreamerClient, rpcMetrics RPCMetrics) *ObservedClient {
	return &ObservedClient{
		client:     client,
		rpcMetrics: rpcMetrics,
	}
}

func (c *ObservedClient) LatestHeight(ctx context.Context) (height uint64, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("get_latest_block", err, started)
	}()

	id, err := c.client.GetLatestBlock(ctx, &walletrpc.ChainSpec{})
	if err != nil {
		return 0, model.NewNetworkError("get latest block", err)
	}
	return id.GetHeight(), nil
}

// BlockRange opens a stream of compact blocks start..end inclusive.
func (c *ObservedClient) BlockRange(ctx context.Context, start, end uint64) (stream chain.BlockStream, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("get_block_range", err, started)
	}()

	s, err := c.client.GetBlockRange(ctx, &walletrpc.BlockRange{
		Start: &walletrpc.BlockID{Height: start},
		End:   &walletrpc.BlockID{Height: end},
	})
	if err != nil {
		return nil, model.NewNetworkError("get block range", err)
	}
	return &blockStream{stream: s}, nil
}

func (c *ObservedClient) Transaction(ctx context.Context, txid model.TxID) (tx model.RawTransaction, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("get_transaction", err, started)
	}()

	raw, err := c.client.GetTransaction(ctx, &walletrpc.TxFilter{Hash: txid[:]})
	if err != nil {
		return model.RawTransaction{}, model.NewNetworkError(fmt.Sprintf("get transaction %s", txid), err)
	}
	return rawTransactionFromProto(raw), nil
}

func (c *ObservedClient) TreeState(ctx context.Context, height uint64) (ts model.TreeState, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("get_tree_state", err, started)
	}()

	resp, err := c.client.GetTreeState(ctx, &walletrpc.BlockID{Height: height})
	if err != nil {
		return model.TreeState{}, model.NewNetworkError(fmt.Sprintf("get tree state %d", height), err)
	}
	return treeStateFromProto(resp)
}

// TaddressTransactions streams the transactions touching address within start..end.
func (c *ObservedClient) TaddressTransactions(ctx context.Context, address string, start, end uint64) (stream chain.RawTxStream, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("get_taddress_txids", err, started)
	}()

	s, err := c.client.GetTaddressTxids(ctx, &walletrpc.TransparentAddressBlockFilter{
		Address: address,
		Range: &walletrpc.BlockRange{
			Start: &walletrpc.BlockID{Height: start},
			End:   &walletrpc.BlockID{Height: end},
		},
	})
	if err != nil {
		return nil, model.NewNetworkError("get taddress txids", err)
	}
	return &rawTxStream{op: "get taddress txids", recv: s.Recv}, nil
}

func (c *ObservedClient) MempoolStream(ctx context.Context) (stream chain.RawTxStream, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("get_mempool_stream", err, started)
	}()

	s, err := c.client.GetMempoolStream(ctx, &walletrpc.Empty{})
	if err != nil {
		return nil, model.NewNetworkError("get mempool stream", err)
	}
	return &rawTxStream{op: "get mempool stream", recv: s.Recv}, nil
}

// SendTransaction broadcasts raw and returns the id the server reports for it.
func (c *ObservedClient) SendTransaction(ctx context.Context, raw []byte) (txid model.TxID, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("send_transaction", err, started)
	}()

	resp, err := c.client.SendTransaction(ctx, &walletrpc.RawTransaction{Data: raw})
	if err != nil {
		return model.TxID{}, model.NewNetworkError("send transaction", err)
	}
	if resp.GetErrorCode() != 0 {
		return model.TxID{}, fmt.Errorf("%w: code %d: %s", ErrRejected, resp.GetErrorCode(), resp.GetErrorMessage())
	}
	hash, err := chainhash.NewHashFromStr(resp.GetErrorMessage())
	if err != nil {
		return model.TxID{}, model.NewDecodeError("send transaction response", err)
	}
	return *hash, nil
}

func (c *ObservedClient) LightdInfo(ctx context.Context) (info model.ServerInfo, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("get_lightd_info", err, started)
	}()

	resp, err := c.client.GetLightdInfo(ctx, &walletrpc.Empty{})
	if err != nil {
		return model.ServerInfo{}, model.NewNetworkError("get lightd info", err)
	}
	return serverInfoFromProto(resp), nil
}

type blockStream struct {
	stream walletrpc.CompactTxStreamer_GetBlockRangeClient
}

func (s *blockStream) Recv() (model.CompactBlock, error) {
	b, err := s.stream.Recv()
	if errors.Is(err, io.EOF) {
		return model.CompactBlock{}, io.EOF
	}
	if err != nil {
		return model.CompactBlock{}, model.NewNetworkError("get block range recv", err)
	}
	return compactBlockFromProto(b)
}

type rawTxStream struct {
	op   string
	recv func() (*walletrpc.RawTransaction, error)
}

func (s *rawTxStream) Recv() (model.RawTransaction, error) {
	tx, err := s.recv()
	if errors.Is(err, io.EOF) {
		return model.RawTransaction{}, io.EOF
	}
	if err != nil {
		return model.RawTransaction{}, model.NewNetworkError(s.op+" recv", err)
	}
	return rawTransactionFromProto(tx), nil
}
