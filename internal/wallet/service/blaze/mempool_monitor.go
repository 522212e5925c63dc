package blaze

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goodnatureofminers/shieldsync-backend/internal/clock"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/broker"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/txparser"
	"github.com/goodnatureofminers/shieldsync-backend/pkg/safe"
	"go.uber.org/zap"
)

// MempoolMonitor scans unconfirmed transactions as the server relays them.
type MempoolMonitor struct {
	source        Source
	scanner       TxScanner
	ledger        Ledger
	publisher     EventPublisher
	metrics       Metrics
	logger        *zap.Logger
	sleep         func(context.Context, time.Duration) error
	now           func() time.Time
	idleDuration  time.Duration
	retryDuration time.Duration
}

// NewMempoolMonitor builds a MempoolMonitor. publisher may be nil.
func NewMempoolMonitor(
	source Source,
	scanner TxScanner,
	ledger Ledger,
	publisher EventPublisher,
	metrics Metrics,
	logger *zap.Logger,
) *MempoolMonitor {
	return &MempoolMonitor{
		source:        source,
		scanner:       scanner,
		ledger:        ledger,
		publisher:     publisher,
		metrics:       metrics,
		logger:        logger.Named("mempool"),
		sleep:         clock.SleepWithContext,
		now:           time.Now,
		idleDuration:  mempoolIdleDuration,
		retryDuration: mempoolRetryDuration,
	}
}

// Run follows the mempool until the context is canceled. A finished stream is reopened after a
// short pause; a failed one after a longer one.
func (m *MempoolMonitor) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d := m.retryDuration
		if err := m.run(ctx); err != nil {
			if model.IsLedgerInvariantViolation(err) {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.logger.Warn("mempool stream failed", zap.Error(err), zap.Duration("sleep", m.idleDuration))
			d = m.idleDuration
		}
		if err := m.sleep(ctx, d); err != nil {
			return err
		}
	}
}

func (m *MempoolMonitor) run(ctx context.Context) error {
	stream, err := m.source.MempoolStream(ctx)
	if err != nil {
		return err
	}
	for {
		raw, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err = m.process(ctx, raw); err != nil {
			return err
		}
	}
}

func (m *MempoolMonitor) process(ctx context.Context, raw model.RawTransaction) error {
	tx, err := txparser.Parse(raw.Data)
	if err != nil {
		m.logger.Debug("skip undecodable mempool transaction", zap.Error(err))
		return nil
	}

	datetime, err := safe.Uint64(m.now().Unix())
	if err != nil {
		return fmt.Errorf("mempool timestamp: %w", err)
	}

	started := time.Now()
	height := m.ledger.LastSyncedHeight() + 1
	res, err := m.scanner.Scan(ctx, tx, model.InMempool(height), datetime, nil)
	m.metrics.ObserveTxScan(err, originMempool, started)
	if err != nil {
		if model.IsLedgerInvariantViolation(err) {
			return err
		}
		m.logger.Warn("scan mempool transaction failed", zap.Stringer("txid", tx.TxID()), zap.Error(err))
		return nil
	}
	if !res.Relevant {
		return nil
	}

	m.logger.Info("wallet transaction in mempool", zap.Stringer("txid", tx.TxID()), zap.Uint64("height", height))
	if m.publisher == nil {
		return nil
	}
	txid := tx.TxID().String()
	if pubErr := m.publisher.Publish(ctx, broker.Event{
		Kind:    broker.KindMempoolTx,
		Height:  height,
		Key:     txid,
		Payload: broker.MempoolTxPayload{TxID: txid, Height: height},
	}); pubErr != nil {
		m.logger.Warn("publish mempool event failed", zap.String("txid", txid), zap.Error(pubErr))
	}
	return nil
}
