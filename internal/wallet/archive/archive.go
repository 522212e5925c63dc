// Package archive keeps the nullifiers and note commitments of the blocks scanned by one sync
// session so later stages can answer spend and witness queries without going back to the server.
package archive

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"go.uber.org/zap"
)

// ErrIncomplete is returned by queries made before the archive received its whole range.
var ErrIncomplete = errors.New("archive incomplete")

// Spend locates the transaction that revealed a nullifier.
type Spend struct {
	TxID   model.TxID
	Height uint64
	Time   uint32
}

type archivedBlock struct {
	time        uint32
	commitments map[model.Protocol][][32]byte
	// offsets maps a transaction to the position of its first output in commitments.
	offsets map[model.Protocol]map[model.TxID]int
}

// Archive is filled by the block fetcher in arrival order and queried once complete.
type Archive struct {
	low, high uint64
	mirror    Mirror
	logger    *zap.Logger

	mu     sync.RWMutex
	blocks map[uint64]*archivedBlock
	spends map[model.Nullifier]Spend

	done     chan struct{}
	doneOnce sync.Once
	err      error
}

// New prepares an archive for the inclusive range between start and end, in either direction.
// mirror may be nil.
func New(start, end uint64, mirror Mirror, logger *zap.Logger) *Archive {
	low, high := start, end
	if low > high {
		low, high = high, low
	}
	return &Archive{
		low:    low,
		high:   high,
		mirror: mirror,
		logger: logger.Named("archive"),
		blocks: make(map[uint64]*archivedBlock, high-low+1),
		spends: make(map[model.Nullifier]Spend),
		done:   make(chan struct{}),
	}
}

// Run archives blocks until the channel is closed, then completes the archive. A channel closed
// before the whole range arrived fails it instead.
func (a *Archive) Run(ctx context.Context, blocks <-chan model.CompactBlock) error {
	for {
		select {
		case <-ctx.Done():
			a.Fail(ctx.Err())
			return ctx.Err()
		case b, ok := <-blocks:
			if !ok {
				if got, want := a.Len(), a.high-a.low+1; uint64(got) != want {
					err := fmt.Errorf("archive received %d of %d blocks", got, want)
					a.Fail(err)
					return err
				}
				a.Complete()
				return nil
			}
			if err := a.Add(ctx, b); err != nil {
				a.Fail(err)
				return err
			}
		}
	}
}

// Add stores the nullifiers and commitments of b.
func (a *Archive) Add(ctx context.Context, b model.CompactBlock) error {
	if b.Height < a.low || b.Height > a.high {
		return model.NewDecodeError(fmt.Sprintf("block %d", b.Height),
			fmt.Errorf("outside archived range %d..%d", a.low, a.high))
	}

	entry := &archivedBlock{
		time:        b.Time,
		commitments: make(map[model.Protocol][][32]byte, len(model.ShieldedProtocols)),
		offsets:     make(map[model.Protocol]map[model.TxID]int, len(model.ShieldedProtocols)),
	}
	spends := make(map[model.Nullifier]Spend)
	for i := range b.Txs {
		tx := &b.Txs[i]
		for _, protocol := range model.ShieldedProtocols {
			outputs, nullifiers := tx.SaplingOutputs, tx.SaplingSpends
			if protocol == model.Orchard {
				outputs, nullifiers = tx.OrchardOutputs, tx.OrchardSpends
			}

			if entry.offsets[protocol] == nil {
				entry.offsets[protocol] = make(map[model.TxID]int)
			}
			entry.offsets[protocol][tx.TxID] = len(entry.commitments[protocol])
			for j, out := range outputs {
				if len(out.Commitment) != 32 {
					return model.NewDecodeError(fmt.Sprintf("block %d tx %s %s output %d", b.Height, tx.TxID, protocol, j),
						fmt.Errorf("commitment length %d", len(out.Commitment)))
				}
				var cm [32]byte
				copy(cm[:], out.Commitment)
				entry.commitments[protocol] = append(entry.commitments[protocol], cm)
			}
			for _, nf := range nullifiers {
				spends[nf] = Spend{TxID: tx.TxID, Height: b.Height, Time: b.Time}
			}
		}
	}

	a.mu.Lock()
	if _, dup := a.blocks[b.Height]; dup {
		a.mu.Unlock()
		return model.NewDecodeError(fmt.Sprintf("block %d", b.Height), errors.New("received twice"))
	}
	a.blocks[b.Height] = entry
	for nf, s := range spends {
		a.spends[nf] = s
	}
	a.mu.Unlock()

	if a.mirror != nil {
		if err := a.mirror.WriteBlock(ctx, b); err != nil {
			a.logger.Warn("mirror block", zap.Uint64("height", b.Height), zap.Error(err))
		}
	}
	return nil
}

// Complete marks the archive as holding the whole range.
func (a *Archive) Complete() {
	a.finish(nil)
}

// Fail closes the archive with err. Queries return err from then on.
func (a *Archive) Fail(err error) {
	if err == nil {
		err = ErrIncomplete
	}
	a.finish(err)
}

func (a *Archive) finish(err error) {
	a.doneOnce.Do(func() {
		a.mu.Lock()
		a.err = err
		a.mu.Unlock()
		close(a.done)
	})
}

// Wait blocks until the archive is completed or failed.
func (a *Archive) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-a.done:
		return a.status()
	}
}

func (a *Archive) status() error {
	select {
	case <-a.done:
	default:
		return ErrIncomplete
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.err
}

// IsNullifierSpent reports the transaction that revealed nf at or above fromHeight.
func (a *Archive) IsNullifierSpent(nf model.Nullifier, fromHeight uint64) (Spend, bool, error) {
	if err := a.status(); err != nil {
		return Spend{}, false, err
	}
	a.mu.RLock()
	defer a.mu.RUnlock()

	s, ok := a.spends[nf]
	if !ok || s.Height < fromHeight {
		return Spend{}, false, nil
	}
	return s, true, nil
}

// BlockCommitments returns the note commitments of protocol added by the block at height, in
// tree order.
func (a *Archive) BlockCommitments(protocol model.Protocol, height uint64) ([][32]byte, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	b, ok := a.blocks[height]
	if !ok {
		return nil, false
	}
	return b.commitments[protocol], true
}

// OutputPosition returns the index within the block's commitments of output outputIndex of txid.
func (a *Archive) OutputPosition(protocol model.Protocol, height uint64, txid model.TxID, outputIndex uint32) (int, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	b, ok := a.blocks[height]
	if !ok {
		return 0, false
	}
	offset, ok := b.offsets[protocol][txid]
	if !ok {
		return 0, false
	}
	pos := offset + int(outputIndex)
	if pos >= len(b.commitments[protocol]) {
		return 0, false
	}
	return pos, true
}

// BlockTime returns the header time of the block at height.
func (a *Archive) BlockTime(height uint64) (uint32, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	b, ok := a.blocks[height]
	if !ok {
		return 0, false
	}
	return b.time, true
}

// Tip is the highest height of the archived range.
func (a *Archive) Tip() uint64 {
	return a.high
}

// Len is the number of archived blocks.
func (a *Archive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.blocks)
}
