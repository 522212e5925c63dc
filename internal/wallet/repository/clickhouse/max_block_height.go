package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

const maxBlockHeightQuery = `
SELECT coalesce(max(height), toUInt64(0)) AS max_height
FROM shielded_blocks
WHERE network = ?`

// MaxBlockHeight returns the highest archived block of a network, zero when none.
func (r *Repository) MaxBlockHeight(ctx context.Context, network model.Network) (height uint64, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("max_block_height", network, err, start)
	}()

	rows, err := r.conn.Query(ctx, maxBlockHeightQuery, string(network))
	if err != nil {
		return 0, fmt.Errorf("query max block height: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		return 0, fmt.Errorf("max block height not found")
	}
	if err = rows.Scan(&height); err != nil {
		return 0, fmt.Errorf("scan max block height: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate max block height: %w", err)
	}
	return height, nil
}
