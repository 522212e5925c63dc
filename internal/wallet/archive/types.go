package archive

import (
	"context"
	"time"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Mirror receives every archived block, typically to copy it into an analytics store.
	Mirror interface {
		WriteBlock(ctx context.Context, block model.CompactBlock) error
	}
	ClickhouseRepository interface {
		InsertBlocks(ctx context.Context, blocks []model.ArchivedBlock) error
		InsertNullifiers(ctx context.Context, nullifiers []model.ArchivedNullifier) error
		MaxBlockHeight(ctx context.Context, network model.Network) (uint64, error)
	}
	MirrorMetrics interface {
		ObserveFlush(table string, err error, rows int, started time.Time)
	}
)
