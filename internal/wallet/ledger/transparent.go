package ledger

import (
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

// AddTransparentOutput records a UTXO paying a wallet address. Known outputs are left untouched.
func (l *Ledger) AddTransparentOutput(txid model.TxID, status model.ConfirmationStatus, datetime uint64, utxo model.UTXO) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := l.ensureTx(txid, status, datetime)
	for i := range tx.UTXOs {
		if tx.UTXOs[i].OutputIndex == utxo.OutputIndex {
			if status.IsConfirmed() {
				tx.UTXOs[i].Height = status.Height
			}
			return false
		}
	}
	utxo.TxID = txid
	if status.IsConfirmed() {
		utxo.Height = status.Height
	}
	tx.UTXOs = append(tx.UTXOs, utxo.Clone())
	return true
}

// TransparentUTXO returns the recorded output prevTxID:index.
func (l *Ledger) TransparentUTXO(prevTxID model.TxID, index uint32) (model.UTXO, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	tx, ok := l.txs[prevTxID]
	if !ok {
		return model.UTXO{}, false
	}
	for _, u := range tx.UTXOs {
		if u.OutputIndex == index {
			return u.Clone(), true
		}
	}
	return model.UTXO{}, false
}

// MarkUTXOSpent marks prevTxID:index as spent by spendingTxID, pending while status is unconfirmed.
// It returns the output value and whether the output is known.
func (l *Ledger) MarkUTXOSpent(prevTxID model.TxID, index uint32, spendingTxID model.TxID, status model.ConfirmationStatus) (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, ok := l.txs[prevTxID]
	if !ok {
		return 0, false
	}
	for i := range tx.UTXOs {
		u := &tx.UTXOs[i]
		if u.OutputIndex != index {
			continue
		}
		if status.IsConfirmed() {
			u.Spent = &model.SpendRef{TxID: spendingTxID, Height: status.Height}
			u.PendingSpent = nil
		} else if u.Spent == nil {
			id := spendingTxID
			u.PendingSpent = &id
		}
		return u.Value, true
	}
	return 0, false
}

// SetTransparentSpent sets the total transparent value txid took from the wallet. The total is
// assigned, not accumulated, so rescanning a transaction keeps it stable.
func (l *Ledger) SetTransparentSpent(txid model.TxID, status model.ConfirmationStatus, datetime uint64, total uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := l.ensureTx(txid, status, datetime)
	tx.TotalTransparentValueSpent = total
}
