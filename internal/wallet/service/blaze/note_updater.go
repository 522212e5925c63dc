package blaze

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/ledger"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"github.com/goodnatureofminers/shieldsync-backend/pkg/workerpool"
	"go.uber.org/zap"
)

// noteUpdater marks wallet notes spent or carries their witnesses to the end of the range.
type noteUpdater struct {
	ledger  Ledger
	archive Archive
	domains map[model.Protocol]Domain
	data    *SyncData
	metrics Metrics
	workers int
	logger  *zap.Logger
}

// Run seeds itself with the wallet's unspent notes once the earliest height is announced, then
// processes them along with every detected note. fetch is closed on return.
func (u *noteUpdater) Run(ctx context.Context, earliest <-chan uint64, detected <-chan DetectedNote, fetch chan<- TxRequest) error {
	defer close(fetch)

	low := u.data.Low()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case h, ok := <-earliest:
		if ok {
			low = h
		}
	}

	items := newQueue[DetectedNote]()
	before := low
	if before > 0 {
		before--
	}
	seeds := u.ledger.GetNotesForUpdating(before)
	for _, ref := range seeds {
		items.Push(DetectedNote{TxID: ref.TxID, Nullifier: ref.Nullifier, Height: low})
	}
	u.logger.Debug("seeded note updater", zap.Int("notes", len(seeds)), zap.Uint64("from", low))

	go func() {
		defer items.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-detected:
				if !ok {
					return
				}
				items.Push(n)
			}
		}
	}()

	if err := u.archive.Wait(ctx); err != nil {
		return fmt.Errorf("wait for block archive: %w", err)
	}

	return workerpool.Drain(ctx, max(u.workers, 1), items.Out(ctx), func(ctx context.Context, item DetectedNote) error {
		return u.update(ctx, item, fetch)
	})
}

func (u *noteUpdater) update(ctx context.Context, item DetectedNote, fetch chan<- TxRequest) (err error) {
	started := time.Now()
	spent := false
	defer func() { u.metrics.ObserveNoteUpdate(err, spent, started) }()

	if err = u.data.canceled(); err != nil {
		return err
	}

	s, found, err := u.archive.IsNullifierSpent(item.Nullifier, item.Height)
	if err != nil {
		return err
	}
	if found {
		spent = true
		if err = u.markSpent(ctx, item, s.TxID, s.Height, uint64(s.Time), fetch); err != nil {
			return err
		}
	} else if err = u.updateWitnesses(ctx, item); err != nil {
		return fmt.Errorf("update witnesses of %s note in %s: %w", item.Nullifier.Protocol, item.TxID, err)
	}

	if item.OutputIndex != nil && u.data.MemoPolicy.FetchesWallet() {
		datetime, _ := u.archive.BlockTime(item.Height)
		return u.request(ctx, fetch, TxRequest{TxID: item.TxID, Height: item.Height, Datetime: uint64(datetime), Origin: originUpdater})
	}
	return nil
}

func (u *noteUpdater) markSpent(ctx context.Context, item DetectedNote, spender model.TxID, height, datetime uint64, fetch chan<- TxRequest) error {
	value, err := u.ledger.MarkSpentAndCredit(ledger.SpendClaim{
		SourceTxID:   item.TxID,
		Nullifier:    item.Nullifier,
		SpendingTxID: spender,
		Height:       height,
		Datetime:     datetime,
	})
	if err != nil {
		return err
	}
	u.data.recordSpend(SpentNote{
		TxID:       spender,
		SourceTxID: item.TxID,
		Nullifier:  item.Nullifier,
		Height:     height,
		Value:      value,
	})
	u.logger.Debug("note spent",
		zap.Stringer("txid", item.TxID),
		zap.Stringer("spender", spender),
		zap.Uint64("height", height),
		zap.Uint64("value", value))

	if !u.data.MemoPolicy.FetchesWallet() {
		return nil
	}
	return u.request(ctx, fetch, TxRequest{TxID: spender, Height: height, Datetime: datetime, Origin: originSpender})
}

// updateWitnesses extends the note's witness cache one checkpoint per block up to the archive tip.
// Notes found in this session are rebuilt from their position first.
func (u *noteUpdater) updateWitnesses(ctx context.Context, item DetectedNote) error {
	note, err := u.ledger.Note(item.TxID, item.Nullifier)
	if err != nil {
		return err
	}
	if !note.HaveSpendingKey {
		return nil
	}
	dom, ok := u.domains[item.Nullifier.Protocol]
	if !ok {
		return fmt.Errorf("no domain for protocol %s", item.Nullifier.Protocol)
	}

	cache, created, err := u.ledger.GetNoteWitnesses(item.TxID, item.Nullifier)
	if err != nil {
		return err
	}
	if item.OutputIndex != nil {
		if cache, err = u.rebuild(ctx, dom, item, created); err != nil {
			return err
		}
	}

	last, ok := cache.Last()
	if !ok {
		u.logger.Warn("note has no witness to extend", zap.Stringer("txid", item.TxID), zap.Uint64("created", created))
		return nil
	}
	protocol := dom.Protocol()
	for h := last.Height + 1; h <= u.archive.Tip(); h++ {
		commitments, ok := u.archive.BlockCommitments(protocol, h)
		if !ok {
			return fmt.Errorf("no %s commitments for block %d", protocol, h)
		}
		if last, err = dom.ExtendWitness(last, h, commitments); err != nil {
			return err
		}
		if err = cache.Push(last); err != nil {
			return err
		}
	}

	return u.ledger.SetNoteWitnesses(item.TxID, item.Nullifier, cache)
}

// rebuild recomputes the witness of a note at the end of the block that created it.
func (u *noteUpdater) rebuild(ctx context.Context, dom Domain, item DetectedNote, created uint64) (model.WitnessCache, error) {
	protocol := dom.Protocol()
	index, ok := u.archive.OutputPosition(protocol, created, item.TxID, *item.OutputIndex)
	if !ok {
		return model.WitnessCache{}, fmt.Errorf("output %d not archived at block %d", *item.OutputIndex, created)
	}
	commitments, ok := u.archive.BlockCommitments(protocol, created)
	if !ok {
		return model.WitnessCache{}, fmt.Errorf("no %s commitments for block %d", protocol, created)
	}
	ts, err := u.data.treeBefore(ctx, created)
	if err != nil {
		return model.WitnessCache{}, err
	}
	w, err := dom.WitnessAt(created, dom.Frontier(ts), commitments, index)
	if err != nil {
		return model.WitnessCache{}, err
	}

	var cache model.WitnessCache
	if err = cache.Push(w); err != nil {
		return model.WitnessCache{}, err
	}
	return cache, nil
}

func (u *noteUpdater) request(ctx context.Context, fetch chan<- TxRequest, req TxRequest) error {
	select {
	case fetch <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
