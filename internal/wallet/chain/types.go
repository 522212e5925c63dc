package chain

import (
	"context"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// TreeStateSource fetches the commitment tree frontiers at the end of a block.
type TreeStateSource interface {
	TreeState(ctx context.Context, height uint64) (model.TreeState, error)
}
