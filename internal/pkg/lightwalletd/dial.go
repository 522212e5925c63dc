package lightwalletd

import (
	"crypto/tls"

	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/zcash/lightwalletd/walletrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// Compact block ranges near the tip can be large.
const maxRecvMsgSize = 64 << 20

// Dial connects to a light wallet server. Calls are logged and counted by the client interceptors.
func Dial(addr string, useTLS bool, logger *zap.Logger) (*grpc.ClientConn, error) {
	creds := insecure.NewCredentials()
	if useTLS {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	return grpc.NewClient(addr,
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(maxRecvMsgSize)),
		grpc.WithUnaryInterceptor(grpcMiddleware.ChainUnaryClient(
			grpcPrometheus.UnaryClientInterceptor,
			grpcZap.UnaryClientInterceptor(logger),
		)),
		grpc.WithStreamInterceptor(grpcMiddleware.ChainStreamClient(
			grpcPrometheus.StreamClientInterceptor,
			grpcZap.StreamClientInterceptor(logger),
		)),
	)
}

// NewClient builds an ObservedClient over an established connection.
func NewClient(conn grpc.ClientConnInterface, rpcMetrics RPCMetrics) *ObservedClient {
	return NewObservedClient(walletrpc.NewCompactTxStreamerClient(conn), rpcMetrics)
}
