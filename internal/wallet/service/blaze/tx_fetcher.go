package blaze

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/txparser"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// txFetcher downloads requested transactions and runs the full scan over them.
type txFetcher struct {
	source  Source
	scanner TxScanner
	data    *SyncData
	metrics Metrics
	limiter *semaphore.Weighted
	logger  *zap.Logger
}

// fetchKey deduplicates requests. A spender request is kept apart from the others: it is only
// sent once the spend is credited, and a scan that ran before the credit missed the outgoing
// classification of the transaction.
type fetchKey struct {
	txid    model.TxID
	spender bool
}

// Run serves requests until the channel is closed. Per transaction failures are recorded in the
// session report; only a ledger invariant violation stops the fetcher.
func (f *txFetcher) Run(ctx context.Context, requests <-chan TxRequest) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		fatalErr error
		seen     = make(map[fetchKey]struct{})
	)
	fatal := func(err error) {
		once.Do(func() {
			fatalErr = err
			cancel()
		})
	}

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case req, ok := <-requests:
			if !ok {
				break loop
			}
			key := fetchKey{txid: req.TxID, spender: req.Origin == originSpender}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			if err := f.limiter.Acquire(ctx, 1); err != nil {
				break loop
			}
			wg.Go(func() {
				defer f.limiter.Release(1)
				if err := f.fetch(ctx, req); err != nil {
					if model.IsLedgerInvariantViolation(err) {
						fatal(err)
						return
					}
					if ctx.Err() != nil {
						return
					}
					f.data.recordFailure(req.TxID, err)
					f.logger.Warn("scan transaction failed",
						zap.Stringer("txid", req.TxID),
						zap.String("origin", req.Origin),
						zap.Error(err))
				}
			})
		}
	}
	wg.Wait()

	if fatalErr != nil {
		return fatalErr
	}
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return f.data.canceled()
}

func (f *txFetcher) fetch(ctx context.Context, req TxRequest) (err error) {
	started := time.Now()
	defer func() { f.metrics.ObserveTxScan(err, req.Origin, started) }()

	raw, err := f.source.Transaction(ctx, req.TxID)
	if err != nil {
		return err
	}
	tx, err := txparser.ParseAndVerify(raw.Data, req.TxID)
	if err != nil {
		return err
	}

	height := raw.Height
	if height == 0 {
		height = req.Height
	}
	if _, err = f.scanner.Scan(ctx, tx, model.Confirmed(height), req.Datetime, nil); err != nil {
		return fmt.Errorf("scan %s: %w", req.TxID, err)
	}
	f.data.fullTxScanned.Add(1)
	return nil
}
