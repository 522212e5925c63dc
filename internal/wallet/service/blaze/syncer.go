package blaze

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/shieldsync-backend/internal/clock"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/broker"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"go.uber.org/zap"
)

// SyncerService keeps the ledger at the chain tip, one session per batch of new blocks.
type SyncerService struct {
	logger        *zap.Logger
	network       model.Network
	source        Source
	ledger        Ledger
	session       SessionRunner
	store         SnapshotStore
	publisher     EventPublisher
	metrics       SyncerMetrics
	sleep         func(context.Context, time.Duration) error
	sleepDuration time.Duration
	backoffBase   time.Duration
	backoffLimit  time.Duration
	birthday      uint64
	// maxSessionBlocks bounds the range, and so the archive, of one session.
	maxSessionBlocks uint64
	failures         int

	synced atomic.Uint64
	tip    atomic.Uint64
}

// NewSyncerService builds a SyncerService. store and publisher may be nil.
func NewSyncerService(
	source Source,
	ledger Ledger,
	session SessionRunner,
	store SnapshotStore,
	publisher EventPublisher,
	metrics SyncerMetrics,
	network model.Network,
	birthday uint64,
	interval time.Duration,
	logger *zap.Logger,
) (*SyncerService, error) {
	if metrics == nil {
		return nil, errors.New("syncer metrics is required")
	}
	if session == nil {
		return nil, errors.New("sync session is required")
	}
	if interval <= 0 {
		interval = sleepDuration
	}

	return &SyncerService{
		logger:        logger.With(zap.String("network", string(network))),
		network:       network,
		source:        source,
		ledger:        ledger,
		session:       session,
		store:         store,
		publisher:     publisher,
		metrics:       metrics,
		sleep:         clock.SleepWithContext,
		sleepDuration: interval,
		backoffBase:   backoffBase,
		backoffLimit:  backoffLimit,
		birthday:      birthday,

		maxSessionBlocks: maxSessionBlocks,
	}, nil
}

// Run syncs until the context is canceled, backing off after failed iterations.
func (s *SyncerService) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		caughtUp, err := s.run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.failures++
			d := clock.Backoff(s.failures, s.backoffBase, s.backoffLimit)
			s.logger.Warn("sync iteration failed, backing off", zap.Error(err), zap.Duration("sleep", d))
			if sleepErr := s.sleep(ctx, d); sleepErr != nil {
				return sleepErr
			}
			continue
		}
		s.failures = 0
		if !caughtUp {
			continue
		}
		if err := s.sleep(ctx, s.sleepDuration); err != nil {
			return err
		}
	}
}

// run syncs at most maxSessionBlocks new blocks and reports whether the ledger reached the tip.
func (s *SyncerService) run(ctx context.Context) (bool, error) {
	started := time.Now()
	tip, err := s.source.LatestHeight(ctx)
	s.metrics.ObserveFetchTip(err, started)
	if err != nil {
		return false, fmt.Errorf("latest height: %w", err)
	}

	synced := s.ledger.LastSyncedHeight()
	start := max(synced+1, s.birthday)
	s.setHeights(synced, tip)
	if tip < start {
		s.logger.Debug("no new blocks", zap.Uint64("synced", synced), zap.Uint64("tip", tip))
		return true, nil
	}
	end := min(tip, start+s.maxSessionBlocks-1)

	s.logger.Info("syncing", zap.Uint64("start", start), zap.Uint64("end", end), zap.Uint64("tip", tip))
	started = time.Now()
	report, err := s.session.Run(ctx, start, end)
	s.metrics.ObserveSession(err, report.Progress.BlocksDownloaded, started)
	if err != nil {
		return false, fmt.Errorf("sync %d..%d: %w", start, end, err)
	}

	s.ledger.SetLastSyncedHeight(end)
	if expired := s.ledger.ClearExpiredMempool(end); len(expired) > 0 {
		s.logger.Info("expired mempool transactions", zap.Int("count", len(expired)))
	}
	s.setHeights(end, tip)

	if err = s.persist(ctx, end); err != nil {
		return false, err
	}
	s.publish(ctx, report)
	return end == tip, nil
}

// Heights reports the last synced height and the chain tip seen by the latest iteration.
func (s *SyncerService) Heights() (synced, tip uint64) {
	return s.synced.Load(), s.tip.Load()
}

func (s *SyncerService) setHeights(synced, tip uint64) {
	s.synced.Store(synced)
	s.tip.Store(tip)
	s.metrics.SetHeights(synced, tip)
}

func (s *SyncerService) persist(ctx context.Context, height uint64) error {
	if s.store == nil {
		return nil
	}
	data, err := s.ledger.Save()
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err = s.store.Save(ctx, height, data); err != nil {
		return fmt.Errorf("save ledger snapshot at %d: %w", height, err)
	}
	return nil
}

// publish announces the session outcome. Delivery failures are logged; the ledger is already
// saved.
func (s *SyncerService) publish(ctx context.Context, report Report) {
	if s.publisher == nil {
		return
	}

	events := make([]broker.Event, 0, 1+len(report.Detected)+len(report.Spends))
	for _, n := range report.Detected {
		var index uint32
		if n.OutputIndex != nil {
			index = *n.OutputIndex
		}
		txid := n.TxID.String()
		events = append(events, broker.Event{
			Kind:   broker.KindNoteDetected,
			Height: n.Height,
			Key:    txid,
			Payload: broker.NoteDetectedPayload{
				TxID:        txid,
				Protocol:    string(n.Nullifier.Protocol),
				Nullifier:   nullifierHex(n.Nullifier),
				Height:      n.Height,
				OutputIndex: index,
			},
		})
	}
	for _, sp := range report.Spends {
		txid := sp.TxID.String()
		events = append(events, broker.Event{
			Kind:   broker.KindNoteSpent,
			Height: sp.Height,
			Key:    txid,
			Payload: broker.NoteSpentPayload{
				TxID:       txid,
				SourceTxID: sp.SourceTxID.String(),
				Protocol:   string(sp.Nullifier.Protocol),
				Nullifier:  nullifierHex(sp.Nullifier),
				Height:     sp.Height,
				Value:      sp.Value,
			},
		})
	}
	events = append(events, broker.Event{
		Kind:   broker.KindSyncCompleted,
		Height: report.End,
		Payload: broker.SyncCompletedPayload{
			From:             report.Start,
			To:               report.End,
			BlocksDownloaded: report.Progress.BlocksDownloaded,
			NotesDetected:    report.Progress.NotesDetected,
			SpendsFound:      report.Progress.SpendsFound,
			FullTxScanned:    report.Progress.FullTxScanned,
			FailedTxs:        len(report.FailedTxs),
		},
	})

	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("publish sync events failed", zap.Int("events", len(events)), zap.Error(err))
	}
}

func nullifierHex(nf model.Nullifier) string {
	if nf.IsZero() {
		return ""
	}
	return hex.EncodeToString(nf.Value[:])
}
