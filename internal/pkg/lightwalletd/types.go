package lightwalletd

import (
	"context"
	"time"

	"github.com/zcash/lightwalletd/walletrpc"
	"google.golang.org/grpc"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// StreamerClient is the part of walletrpc.CompactTxStreamerClient the wallet uses.
	StreamerClient interface {
		GetLatestBlock(ctx context.Context, in *walletrpc.ChainSpec, opts ...grpc.CallOption) (*walletrpc.BlockID, error)
		GetBlockRange(ctx context.Context, in *walletrpc.BlockRange, opts ...grpc.CallOption) (walletrpc.CompactTxStreamer_GetBlockRangeClient, error)
		GetTransaction(ctx context.Context, in *walletrpc.TxFilter, opts ...grpc.CallOption) (*walletrpc.RawTransaction, error)
		SendTransaction(ctx context.Context, in *walletrpc.RawTransaction, opts ...grpc.CallOption) (*walletrpc.SendResponse, error)
		GetTreeState(ctx context.Context, in *walletrpc.BlockID, opts ...grpc.CallOption) (*walletrpc.TreeState, error)
		GetTaddressTxids(ctx context.Context, in *walletrpc.TransparentAddressBlockFilter, opts ...grpc.CallOption) (walletrpc.CompactTxStreamer_GetTaddressTxidsClient, error)
		GetMempoolStream(ctx context.Context, in *walletrpc.Empty, opts ...grpc.CallOption) (walletrpc.CompactTxStreamer_GetMempoolStreamClient, error)
		GetLightdInfo(ctx context.Context, in *walletrpc.Empty, opts ...grpc.CallOption) (*walletrpc.LightdInfo, error)
	}
)
