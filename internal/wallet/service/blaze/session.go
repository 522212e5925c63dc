package blaze

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/chain"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ArchiveFactory opens the block archive of one session range.
type ArchiveFactory func(start, end uint64) Archive

// SessionConfig tunes a Session.
type SessionConfig struct {
	MemoPolicy   model.MemoPolicy
	TrialWorkers int
	// MaxOutputs skips the rest of a block once a transaction has more shielded outputs. Zero
	// disables the filter.
	MaxOutputs int
}

// Session runs the sync pipeline over one height range at a time.
type Session struct {
	source     Source
	domains    []Domain
	keys       KeyStore
	ledger     Ledger
	scanner    TxScanner
	newArchive ArchiveFactory
	metrics    Metrics
	config     SessionConfig
	logger     *zap.Logger

	cancelled atomic.Bool
}

func NewSession(
	source Source,
	domains []Domain,
	keys KeyStore,
	ledger Ledger,
	scanner TxScanner,
	newArchive ArchiveFactory,
	metrics Metrics,
	config SessionConfig,
	logger *zap.Logger,
) *Session {
	if config.TrialWorkers <= 0 {
		config.TrialWorkers = defaultTrialWorkers
	}
	return &Session{
		source:     source,
		domains:    domains,
		keys:       keys,
		ledger:     ledger,
		scanner:    scanner,
		newArchive: newArchive,
		metrics:    metrics,
		config:     config,
		logger:     logger.Named("session"),
	}
}

// Cancel stops the running session at the next batch or item boundary. Calls in flight finish.
func (s *Session) Cancel() {
	s.cancelled.Store(true)
}

// Run syncs start..end. Any stage failure cancels the others and is returned together with the
// progress made so far.
func (s *Session) Run(ctx context.Context, start, end uint64) (Report, error) {
	s.cancelled.Store(false)
	started := time.Now()

	data := newSyncData(start, end, s.config.MemoPolicy, chain.NewTreeStateResolver(s.source), &s.cancelled)
	arc := s.newArchive(start, end)
	limiter := semaphore.NewWeighted(maxInFlightTxFetches)

	domains := make(map[model.Protocol]Domain, len(s.domains))
	for _, d := range s.domains {
		domains[d.Protocol()] = d
	}

	var (
		earliest  = make(chan uint64, 1)
		toDecrypt = make(chan model.CompactBlock, blockChannelCapacity)
		toArchive = make(chan model.CompactBlock, blockChannelCapacity)
		detected  = make(chan DetectedNote, detectedChannelCapacity)
		fetch     = make(chan TxRequest, fetchChannelCapacity)
	)

	fetcher := &blockFetcher{
		source:  s.source,
		data:    data,
		metrics: s.metrics,
		logger:  s.logger.Named("fetcher"),
	}
	decryptor := &trialDecryptor{
		source:     s.source,
		domains:    s.domains,
		keys:       s.keys,
		ledger:     s.ledger,
		data:       data,
		metrics:    s.metrics,
		limiter:    limiter,
		workers:    s.config.TrialWorkers,
		maxOutputs: s.config.MaxOutputs,
		logger:     s.logger.Named("decryptor"),
	}
	updater := &noteUpdater{
		ledger:  s.ledger,
		archive: arc,
		domains: domains,
		data:    data,
		metrics: s.metrics,
		workers: noteUpdaterWorkers,
		logger:  s.logger.Named("updater"),
	}
	txs := &txFetcher{
		source:  s.source,
		scanner: s.scanner,
		data:    data,
		metrics: s.metrics,
		limiter: limiter,
		logger:  s.logger.Named("txFetcher"),
	}
	transparent := &transparentFetcher{
		source:  s.source,
		scanner: s.scanner,
		keys:    s.keys,
		archive: arc,
		data:    data,
		metrics: s.metrics,
		limiter: limiter,
		logger:  s.logger.Named("transparent"),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return fetcher.Fetch(gctx, earliest, [2]chan<- model.CompactBlock{toDecrypt, toArchive})
	})
	g.Go(func() error { return arc.Run(gctx, toArchive) })
	g.Go(func() error { return decryptor.Run(gctx, toDecrypt, detected) })
	g.Go(func() error { return updater.Run(gctx, earliest, detected, fetch) })
	g.Go(func() error { return txs.Run(gctx, fetch) })
	g.Go(func() error { return transparent.Run(gctx) })

	err := g.Wait()
	report := data.report()
	if err != nil {
		s.logger.Warn("sync session failed",
			zap.Uint64("start", start),
			zap.Uint64("end", end),
			zap.Uint64("blocks", report.Progress.BlocksDownloaded),
			zap.Error(err))
		return report, err
	}

	s.logger.Info("sync session finished",
		zap.Uint64("start", start),
		zap.Uint64("end", end),
		zap.Uint64("blocks", report.Progress.BlocksDownloaded),
		zap.Uint64("notes", report.Progress.NotesDetected),
		zap.Uint64("spends", report.Progress.SpendsFound),
		zap.Uint64("txs", report.Progress.FullTxScanned),
		zap.Int("failed_txs", len(report.FailedTxs)),
		zap.Duration("took", time.Since(started)))
	return report, nil
}
