package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

const insertBlocksQuery = `
INSERT INTO shielded_blocks (
	network,
	height,
	hash,
	prev_hash,
	timestamp,
	tx_count,
	sapling_outputs,
	orchard_outputs,
	nullifiers
) VALUES`

// InsertBlocks stores archived block summaries.
func (r *Repository) InsertBlocks(ctx context.Context, blocks []model.ArchivedBlock) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_blocks", firstNetwork(blocks), err, start)
	}()

	if len(blocks) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertBlocksQuery)
	if err != nil {
		return fmt.Errorf("prepare blocks batch: %w", err)
	}

	for _, block := range blocks {
		if err = batch.Append(
			string(block.Network),
			block.Height,
			block.Hash,
			block.PrevHash,
			block.Time,
			block.TxCount,
			block.SaplingOutputs,
			block.OrchardOutputs,
			block.Nullifiers,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append block %d: %w", block.Height, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert blocks: %w", err)
	}
	return nil
}

func firstNetwork[T any](items []T) model.Network {
	if len(items) == 0 {
		return ""
	}

	switch v := any(items[0]).(type) {
	case model.ArchivedBlock:
		return v.Network
	case model.ArchivedNullifier:
		return v.Network
	default:
		return ""
	}
}
