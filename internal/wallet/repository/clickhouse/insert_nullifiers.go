package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

const insertNullifiersQuery = `
INSERT INTO shielded_nullifiers (
	network,
	protocol,
	nullifier,
	txid,
	height
) VALUES`

// InsertNullifiers stores nullifiers revealed by archived blocks.
func (r *Repository) InsertNullifiers(ctx context.Context, nullifiers []model.ArchivedNullifier) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_nullifiers", firstNetwork(nullifiers), err, start)
	}()

	if len(nullifiers) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertNullifiersQuery)
	if err != nil {
		return fmt.Errorf("prepare nullifiers batch: %w", err)
	}

	for _, nf := range nullifiers {
		if err = batch.Append(
			string(nf.Network),
			string(nf.Protocol),
			nf.Nullifier,
			nf.TxID,
			nf.Height,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append nullifier: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert nullifiers: %w", err)
	}
	return nil
}
