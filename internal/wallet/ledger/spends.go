package ledger

import (
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

// SpendClaim says that nullifier Nullifier of a note created by SourceTxID was revealed by
// SpendingTxID mined at Height.
type SpendClaim struct {
	SourceTxID   model.TxID
	Nullifier    model.Nullifier
	SpendingTxID model.TxID
	Height       uint64
	Datetime     uint64
}

// MarkSpentAndCredit marks the note spent and credits its value to the spending transaction under
// a single write lock. A claim from a different spender replaces the previous one and moves the
// credit, so a nullifier is only ever credited to one transaction.
func (l *Ledger) MarkSpentAndCredit(claim SpendClaim) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	value, err := l.markSpent(claim.SourceTxID, claim.Nullifier, claim.SpendingTxID, claim.Height)
	if err != nil {
		return 0, err
	}
	l.credit(claim.SpendingTxID, model.Confirmed(claim.Height), claim.Datetime, claim.Nullifier, value)
	return value, nil
}

// MarkTxidNullifierSpent marks the note spent by spendingTxID and returns its value.
func (l *Ledger) MarkTxidNullifierSpent(sourceTxID model.TxID, nf model.Nullifier, spendingTxID model.TxID, height uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.markSpent(sourceTxID, nf, spendingTxID, height)
}

// AddNewSpent credits value spent through nf to spendingTxID. Crediting the same nullifier twice
// is a no-op. A pending status also flags the source note as pending spent.
func (l *Ledger) AddNewSpent(
	spendingTxID model.TxID,
	height uint64,
	status model.ConfirmationStatus,
	datetime uint64,
	nf model.Nullifier,
	value uint64,
	sourceTxID model.TxID,
) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if status.IsPending() {
		_, n := l.findNote(sourceTxID, nf)
		if n == nil {
			return model.Violation("add new spent", "no note %s in %s", nf, sourceTxID)
		}
		if n.Spent == nil {
			id := spendingTxID
			n.PendingSpent = &id
		}
	}
	if status.IsConfirmed() && status.Height == 0 {
		status = model.Confirmed(height)
	}
	l.credit(spendingTxID, status, datetime, nf, value)
	return nil
}

// UnspentNullifiers lists notes of protocol with a known nullifier and no confirmed spend.
func (l *Ledger) UnspentNullifiers(protocol model.Protocol) []UnspentNullifier {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []UnspentNullifier
	for txid, tx := range l.txs {
		for i := range tx.Notes[protocol] {
			n := &tx.Notes[protocol][i]
			if n.Nullifier == nil || n.Spent != nil {
				continue
			}
			out = append(out, UnspentNullifier{Nullifier: *n.Nullifier, Value: n.Value, TxID: txid})
		}
	}
	return out
}

// SpenderOf returns the transaction credited with spending nf.
func (l *Ledger) SpenderOf(nf model.Nullifier) (model.TxID, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for txid, tx := range l.txs {
		if containsNullifier(tx.SpentNullifiers[nf.Protocol], nf) {
			return txid, true
		}
	}
	return model.TxID{}, false
}

// EraseSpentInTxIDs forgets spends made by the given transactions, returning their notes and UTXOs
// to unspent.
func (l *Ledger) EraseSpentInTxIDs(txids []model.TxID) {
	if len(txids) == 0 {
		return
	}
	set := make(map[model.TxID]struct{}, len(txids))
	for _, id := range txids {
		set[id] = struct{}{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.eraseSpent(set)
}

// ClearExpiredMempool drops mempool transactions whose status expired at cutoff, together with the
// pending spends they made. It returns the removed ids.
func (l *Ledger) ClearExpiredMempool(cutoff uint64) []model.TxID {
	l.mu.Lock()
	defer l.mu.Unlock()

	set := make(map[model.TxID]struct{})
	for txid, tx := range l.txs {
		if tx.Status.IsInMempool() && tx.Status.IsExpired(cutoff) {
			set[txid] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	l.eraseSpent(set)

	removed := make([]model.TxID, 0, len(set))
	for txid := range set {
		delete(l.txs, txid)
		removed = append(removed, txid)
	}
	return removed
}

// markSpent is the locked body of MarkTxidNullifierSpent. Callers hold the write lock.
func (l *Ledger) markSpent(sourceTxID model.TxID, nf model.Nullifier, spendingTxID model.TxID, height uint64) (uint64, error) {
	_, n := l.findNote(sourceTxID, nf)
	if n == nil {
		return 0, model.Violation("mark spent", "no note %s in %s", nf, sourceTxID)
	}

	previous := previousSpender(n)
	if previous != nil && *previous != spendingTxID {
		l.uncredit(*previous, nf, n.Value)
	}
	n.Spent = &model.SpendRef{TxID: spendingTxID, Height: height}
	n.PendingSpent = nil
	return n.Value, nil
}

func (l *Ledger) credit(spendingTxID model.TxID, status model.ConfirmationStatus, datetime uint64, nf model.Nullifier, value uint64) {
	tx := l.ensureTx(spendingTxID, status, datetime)
	if containsNullifier(tx.SpentNullifiers[nf.Protocol], nf) {
		return
	}
	tx.SpentNullifiers[nf.Protocol] = append(tx.SpentNullifiers[nf.Protocol], nf)
	tx.ShieldedValueSpent[nf.Protocol] += value
}

func (l *Ledger) uncredit(spendingTxID model.TxID, nf model.Nullifier, value uint64) {
	tx, ok := l.txs[spendingTxID]
	if !ok {
		return
	}
	nfs := tx.SpentNullifiers[nf.Protocol]
	for i := range nfs {
		if nfs[i] != nf {
			continue
		}
		tx.SpentNullifiers[nf.Protocol] = append(nfs[:i:i], nfs[i+1:]...)
		if tx.ShieldedValueSpent[nf.Protocol] >= value {
			tx.ShieldedValueSpent[nf.Protocol] -= value
		} else {
			tx.ShieldedValueSpent[nf.Protocol] = 0
		}
		return
	}
}

func (l *Ledger) eraseSpent(set map[model.TxID]struct{}) {
	for _, tx := range l.txs {
		for protocol := range tx.Notes {
			for i := range tx.Notes[protocol] {
				n := &tx.Notes[protocol][i]
				if n.Spent != nil {
					if _, ok := set[n.Spent.TxID]; ok {
						n.Spent = nil
					}
				}
				if n.PendingSpent != nil {
					if _, ok := set[*n.PendingSpent]; ok {
						n.PendingSpent = nil
					}
				}
			}
		}
		for i := range tx.UTXOs {
			u := &tx.UTXOs[i]
			if u.Spent != nil {
				if _, ok := set[u.Spent.TxID]; ok {
					u.Spent = nil
				}
			}
			if u.PendingSpent != nil {
				if _, ok := set[*u.PendingSpent]; ok {
					u.PendingSpent = nil
				}
			}
		}
	}
}

func previousSpender(n *model.Note) *model.TxID {
	if n.Spent != nil {
		return &n.Spent.TxID
	}
	return n.PendingSpent
}

func containsNullifier(list []model.Nullifier, nf model.Nullifier) bool {
	for _, v := range list {
		if v == nf {
			return true
		}
	}
	return false
}
