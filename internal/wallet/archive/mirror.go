package archive

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"github.com/goodnatureofminers/shieldsync-backend/pkg/batcher"
	"go.uber.org/zap"
)

// ClickhouseMirror copies archived block summaries and revealed nullifiers into ClickHouse.
// Heights already stored by a previous run are skipped.
type ClickhouseMirror struct {
	repo    ClickhouseRepository
	network model.Network
	logger  *zap.Logger

	floor      uint64
	blocks     *batcher.Batcher[model.ArchivedBlock]
	nullifiers *batcher.Batcher[model.ArchivedNullifier]
}

func NewClickhouseMirror(repo ClickhouseRepository, network model.Network, metrics MirrorMetrics, logger *zap.Logger) *ClickhouseMirror {
	m := &ClickhouseMirror{
		repo:    repo,
		network: network,
		logger:  logger.Named("clickhouseMirror"),
	}
	m.blocks = batcher.New[model.ArchivedBlock](
		m.logger.Named("blockBatcher"),
		m.repo.InsertBlocks,
		blockFlushSize,
		mirrorFlushInterval,
		mirrorFlushesPerSecond,
		batcher.WithFlushObserver(func(size int, err error, started time.Time) {
			metrics.ObserveFlush("shielded_blocks", err, size, started)
		}),
	)
	m.nullifiers = batcher.New[model.ArchivedNullifier](
		m.logger.Named("nullifierBatcher"),
		m.repo.InsertNullifiers,
		nullifierFlushSize,
		mirrorFlushInterval,
		mirrorFlushesPerSecond,
		batcher.WithFlushObserver(func(size int, err error, started time.Time) {
			metrics.ObserveFlush("shielded_nullifiers", err, size, started)
		}),
	)
	return m
}

// Start loads the highest mirrored height and starts the flush loops.
func (m *ClickhouseMirror) Start(ctx context.Context) error {
	floor, err := m.repo.MaxBlockHeight(ctx, m.network)
	if err != nil {
		return fmt.Errorf("max mirrored height: %w", err)
	}
	m.floor = floor
	m.logger.Info("mirror started", zap.Uint64("mirrored_height", floor))

	m.blocks.Start(ctx)
	m.nullifiers.Start(ctx)
	return nil
}

// Stop flushes queued rows.
func (m *ClickhouseMirror) Stop() {
	m.blocks.Stop()
	m.nullifiers.Stop()
}

func (m *ClickhouseMirror) WriteBlock(ctx context.Context, b model.CompactBlock) error {
	if b.Height <= m.floor {
		return nil
	}

	summary, nullifiers := Summarize(m.network, b)
	if err := m.blocks.Add(ctx, summary); err != nil {
		return err
	}
	for _, nf := range nullifiers {
		if err := m.nullifiers.Add(ctx, nf); err != nil {
			return err
		}
	}
	return nil
}

// Summarize converts a compact block to its analytics rows.
func Summarize(network model.Network, b model.CompactBlock) (model.ArchivedBlock, []model.ArchivedNullifier) {
	summary := model.ArchivedBlock{
		Network:  network,
		Height:   b.Height,
		Hash:     displayHash(b.Hash),
		PrevHash: displayHash(b.PrevHash),
		Time:     time.Unix(int64(b.Time), 0).UTC(),
		TxCount:  uint32(len(b.Txs)),
	}

	var nullifiers []model.ArchivedNullifier
	for i := range b.Txs {
		tx := &b.Txs[i]
		summary.SaplingOutputs += uint32(len(tx.SaplingOutputs))
		summary.OrchardOutputs += uint32(len(tx.OrchardOutputs))
		for _, nf := range append(append([]model.Nullifier(nil), tx.SaplingSpends...), tx.OrchardSpends...) {
			nullifiers = append(nullifiers, model.ArchivedNullifier{
				Network:   network,
				Protocol:  nf.Protocol,
				Nullifier: hex.EncodeToString(nf.Value[:]),
				TxID:      tx.TxID.String(),
				Height:    b.Height,
			})
		}
	}
	summary.Nullifiers = uint32(len(nullifiers))
	return summary, nullifiers
}

// displayHash renders a block hash the way explorers do.
func displayHash(b []byte) string {
	h, err := chainhash.NewHash(b)
	if err != nil {
		return hex.EncodeToString(b)
	}
	return h.String()
}
