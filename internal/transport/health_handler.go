// Package transport exposes gRPC/HTTP handlers.
package transport

import (
	"context"
	"fmt"

	blockinsight7000v1 "github.com/goodnatureofminers/blockinsight7000-proto/pkg/blockinsight7000/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// SyncStatus reports how far the wallet ledger is behind the chain.
type SyncStatus interface {
	Heights() (synced, tip uint64)
}

// HealthHandler implements ExplorerServiceServer on top of the sync loop.
type HealthHandler struct {
	blockinsight7000v1.UnimplementedExplorerServiceServer

	status SyncStatus
	maxLag uint64
}

// NewHealthHandler returns a handler that turns unavailable once the ledger falls more than
// maxLag blocks behind the tip.
func NewHealthHandler(status SyncStatus, maxLag uint64) blockinsight7000v1.ExplorerServiceServer {
	return &HealthHandler{status: status, maxLag: maxLag}
}

// Health reports server health.
func (h *HealthHandler) Health(_ context.Context, _ *blockinsight7000v1.HealthRequest) (*blockinsight7000v1.HealthResponse, error) {
	synced, tip := h.status.Heights()
	if tip == 0 {
		return nil, status.Error(codes.Unavailable, "chain tip not known yet")
	}
	if tip > synced && tip-synced > h.maxLag {
		return nil, status.Errorf(codes.Unavailable, "ledger is %d blocks behind tip %d", tip-synced, tip)
	}
	return &blockinsight7000v1.HealthResponse{
		Status:      blockinsight7000v1.HealthStatus_HEALTH_STATUS_HEALTHY,
		Description: fmt.Sprintf("synced %d of %d", synced, tip),
	}, nil
}
