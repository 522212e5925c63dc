// Package ledger holds the wallet transaction set shared by every sync stage.
package ledger

import (
	"sort"
	"sync"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

// Ledger is the lock-guarded wallet transaction set. Readers run concurrently; every mutation
// holds the write lock for its whole multi-field update.
type Ledger struct {
	mu               sync.RWMutex
	txs              map[model.TxID]*model.TxRecord
	lastSyncedHeight uint64
}

// NoteRef identifies a note by the transaction that created it.
type NoteRef struct {
	TxID          model.TxID
	Nullifier     model.Nullifier
	CreatedHeight uint64
}

// UnspentNullifier is an unspent note as seen by mempool spend detection.
type UnspentNullifier struct {
	Nullifier model.Nullifier
	Value     uint64
	TxID      model.TxID
}

// Balance sums note and UTXO values by pool.
type Balance struct {
	Spendable   map[model.Protocol]uint64
	Pending     map[model.Protocol]uint64
	Transparent uint64
}

func New() *Ledger {
	return &Ledger{txs: make(map[model.TxID]*model.TxRecord)}
}

func (l *Ledger) LastSyncedHeight() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastSyncedHeight
}

// SetLastSyncedHeight records the tip of the last completed sync. It never moves backwards.
func (l *Ledger) SetLastSyncedHeight(height uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if height > l.lastSyncedHeight {
		l.lastSyncedHeight = height
	}
}

// Transaction returns a copy of the record for txid.
func (l *Ledger) Transaction(txid model.TxID) (model.TxRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	tx, ok := l.txs[txid]
	if !ok {
		return model.TxRecord{}, false
	}
	return tx.Clone(), true
}

// Transactions returns copies of all records ordered by height, pending last.
func (l *Ledger) Transactions() []model.TxRecord {
	l.mu.RLock()
	out := make([]model.TxRecord, 0, len(l.txs))
	for _, tx := range l.txs {
		out = append(out, tx.Clone())
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Status, out[j].Status
		if a.IsConfirmed() != b.IsConfirmed() {
			return a.IsConfirmed()
		}
		if a.Height != b.Height {
			return a.Height < b.Height
		}
		return out[i].TxID.String() < out[j].TxID.String()
	})
	return out
}

// NoteCount returns the number of shielded notes recorded for a protocol.
func (l *Ledger) NoteCount(protocol model.Protocol) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	count := 0
	for _, tx := range l.txs {
		count += len(tx.Notes[protocol])
	}
	return count
}

func (l *Ledger) Balance() Balance {
	l.mu.RLock()
	defer l.mu.RUnlock()

	b := Balance{
		Spendable: make(map[model.Protocol]uint64),
		Pending:   make(map[model.Protocol]uint64),
	}
	for _, tx := range l.txs {
		for protocol, notes := range tx.Notes {
			for i := range notes {
				n := &notes[i]
				if n.Spent != nil {
					continue
				}
				if tx.Status.IsConfirmed() && n.PendingSpent == nil {
					b.Spendable[protocol] += n.Value
				} else {
					b.Pending[protocol] += n.Value
				}
			}
		}
		for _, u := range tx.UTXOs {
			if u.Spent == nil && u.PendingSpent == nil {
				b.Transparent += u.Value
			}
		}
	}
	return b
}

// ensureTx returns the record for txid, creating it if needed, and advances its status.
// Callers hold the write lock.
func (l *Ledger) ensureTx(txid model.TxID, status model.ConfirmationStatus, datetime uint64) *model.TxRecord {
	tx, ok := l.txs[txid]
	if !ok {
		tx = model.NewTxRecord(txid, status, datetime)
		l.txs[txid] = tx
		return tx
	}
	if tx.Status != status && tx.Status.CanAdvanceTo(status) {
		tx.Status = status
	}
	if tx.Datetime == 0 {
		tx.Datetime = datetime
	}
	return tx
}

// findNote locates a note by nullifier inside one transaction. Callers hold a lock.
func (l *Ledger) findNote(txid model.TxID, nf model.Nullifier) (*model.TxRecord, *model.Note) {
	tx, ok := l.txs[txid]
	if !ok {
		return nil, nil
	}
	notes := tx.Notes[nf.Protocol]
	for i := range notes {
		if notes[i].Nullifier != nil && *notes[i].Nullifier == nf {
			return tx, &notes[i]
		}
	}
	return tx, nil
}
