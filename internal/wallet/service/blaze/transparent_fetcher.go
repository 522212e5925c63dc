package blaze

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/txparser"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// transparentFetcher scans the history of the wallet's transparent addresses over the session
// range.
type transparentFetcher struct {
	source  Source
	scanner TxScanner
	keys    KeyStore
	archive Archive
	data    *SyncData
	metrics Metrics
	limiter *semaphore.Weighted
	logger  *zap.Logger
}

type addressTx struct {
	tx     *txparser.Transaction
	height uint64
}

// Run downloads every address history, then scans the transactions in height order so outputs are
// recorded before the inputs that spend them. Failures are recorded, never returned.
func (f *transparentFetcher) Run(ctx context.Context) error {
	addrs := f.keys.TransparentAddresses()
	if len(addrs) == 0 {
		return nil
	}
	if err := f.archive.Wait(ctx); err != nil {
		return fmt.Errorf("wait for block archive: %w", err)
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		txs = make(map[model.TxID]addressTx)
	)
	for _, addr := range addrs {
		if err := f.limiter.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Go(func() {
			defer f.limiter.Release(1)
			found, err := f.history(ctx, addr)
			if err != nil {
				f.logger.Warn("address history failed", zap.String("address", addr), zap.Error(err))
			}
			mu.Lock()
			for _, t := range found {
				txs[t.tx.TxID()] = t
			}
			mu.Unlock()
		})
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	ordered := make([]addressTx, 0, len(txs))
	for _, t := range txs {
		ordered = append(ordered, t)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].height < ordered[j].height })

	for _, t := range ordered {
		if err := f.data.canceled(); err != nil {
			return err
		}
		if err := f.scan(ctx, t); err != nil {
			if model.IsLedgerInvariantViolation(err) {
				return err
			}
			f.data.recordFailure(t.tx.TxID(), err)
			f.logger.Warn("scan transparent transaction failed", zap.Stringer("txid", t.tx.TxID()), zap.Error(err))
		}
	}
	return nil
}

func (f *transparentFetcher) history(ctx context.Context, addr string) ([]addressTx, error) {
	stream, err := f.source.TaddressTransactions(ctx, addr, f.data.Low(), f.data.High())
	if err != nil {
		return nil, err
	}

	var out []addressTx
	for {
		raw, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		tx, err := txparser.Parse(raw.Data)
		if err != nil {
			f.logger.Warn("skip undecodable address transaction", zap.String("address", addr), zap.Uint64("height", raw.Height), zap.Error(err))
			continue
		}
		out = append(out, addressTx{tx: tx, height: raw.Height})
	}
}

func (f *transparentFetcher) scan(ctx context.Context, t addressTx) (err error) {
	started := time.Now()
	defer func() { f.metrics.ObserveTxScan(err, originTransparent, started) }()

	datetime, _ := f.archive.BlockTime(t.height)
	if _, err = f.scanner.Scan(ctx, t.tx, model.Confirmed(t.height), uint64(datetime), nil); err != nil {
		return err
	}
	f.data.fullTxScanned.Add(1)
	return nil
}
