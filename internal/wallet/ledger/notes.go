package ledger

import (
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

// AddNewNote records a note discovered in a confirmed block. Re-detecting a known note only fills
// in fields that were missing, so repeated scans never duplicate it. It reports whether a new
// note was appended.
func (l *Ledger) AddNewNote(txid model.TxID, status model.ConfirmationStatus, datetime uint64, note model.Note) (bool, error) {
	if note.Protocol != model.Sapling && note.Protocol != model.Orchard {
		return false, model.Violation("add new note", "unsupported protocol %q", note.Protocol)
	}
	if note.Nullifier != nil && note.Nullifier.Protocol != note.Protocol {
		return false, model.Violation("add new note", "nullifier protocol %q on %q note", note.Nullifier.Protocol, note.Protocol)
	}
	if !note.Witnesses.Monotonic() {
		return false, model.Violation("add new note", "witness checkpoints out of order for %s", txid)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx := l.ensureTx(txid, status, datetime)
	if existing := matchNote(tx.Notes[note.Protocol], note); existing != nil {
		mergeNote(existing, note)
		return false, nil
	}
	tx.Notes[note.Protocol] = append(tx.Notes[note.Protocol], note.Clone())
	return true, nil
}

// AddPendingNote records a note seen in a mempool transaction. Pending notes have no position
// or nullifier yet; a later confirmed scan completes them in place.
func (l *Ledger) AddPendingNote(txid model.TxID, height uint64, datetime uint64, note model.Note) (bool, error) {
	if note.OutputIndex == nil {
		return false, model.Violation("add pending note", "note in %s has no output index", txid)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx := l.ensureTx(txid, model.InMempool(height), datetime)
	if existing := matchNote(tx.Notes[note.Protocol], note); existing != nil {
		return false, nil
	}
	note.Position = nil
	note.Nullifier = nil
	note.Witnesses = model.WitnessCache{}
	tx.Notes[note.Protocol] = append(tx.Notes[note.Protocol], note.Clone())
	return true, nil
}

// GetNotesForUpdating lists notes with a known nullifier that were created at or below height
// and are not confirmed spent as of that height.
func (l *Ledger) GetNotesForUpdating(beforeHeight uint64) []NoteRef {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var refs []NoteRef
	for txid, tx := range l.txs {
		if !tx.Status.IsConfirmedAtOrBelow(beforeHeight) {
			continue
		}
		for _, protocol := range model.ShieldedProtocols {
			for i := range tx.Notes[protocol] {
				n := &tx.Notes[protocol][i]
				if n.Nullifier == nil || n.IsSpentAtOrBefore(beforeHeight) {
					continue
				}
				refs = append(refs, NoteRef{TxID: txid, Nullifier: *n.Nullifier, CreatedHeight: tx.Status.Height})
			}
		}
	}
	return refs
}

// Note returns a copy of the note with the given nullifier.
func (l *Ledger) Note(txid model.TxID, nf model.Nullifier) (model.Note, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, n := l.findNote(txid, nf)
	if n == nil {
		return model.Note{}, model.Violation("get note", "no note %s in %s", nf, txid)
	}
	return n.Clone(), nil
}

// GetNoteWitnesses returns the note's witness cache and the height of its creating transaction.
func (l *Ledger) GetNoteWitnesses(txid model.TxID, nf model.Nullifier) (model.WitnessCache, uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	tx, n := l.findNote(txid, nf)
	if n == nil {
		return model.WitnessCache{}, 0, model.Violation("get note witnesses", "no note %s in %s", nf, txid)
	}
	return n.Witnesses.Clone(), tx.Status.Height, nil
}

// SetNoteWitnesses replaces the note's witness cache.
func (l *Ledger) SetNoteWitnesses(txid model.TxID, nf model.Nullifier, cache model.WitnessCache) error {
	if !cache.Monotonic() {
		return model.Violation("set note witnesses", "checkpoints out of order for %s", nf)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, n := l.findNote(txid, nf)
	if n == nil {
		return model.Violation("set note witnesses", "no note %s in %s", nf, txid)
	}
	n.Witnesses = cache.Clone()
	if last, ok := cache.Last(); ok && n.Position == nil {
		pos := last.Position
		n.Position = &pos
	}
	return nil
}

// AddMemoToNote attaches a memo to the note created by output index of protocol in txid.
// It reports false when no such note is recorded.
func (l *Ledger) AddMemoToNote(txid model.TxID, protocol model.Protocol, outputIndex uint32, memo model.Memo) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, ok := l.txs[txid]
	if !ok {
		return false
	}
	notes := tx.Notes[protocol]
	for i := range notes {
		if notes[i].OutputIndex != nil && *notes[i].OutputIndex == outputIndex {
			m := memo
			m.Raw = append([]byte(nil), memo.Raw...)
			notes[i].Memo = &m
			return true
		}
	}
	return false
}

// MarkNotesAsChange flags every note received by txid as change.
func (l *Ledger) MarkNotesAsChange(txid model.TxID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, ok := l.txs[txid]
	if !ok {
		return
	}
	for protocol := range tx.Notes {
		for i := range tx.Notes[protocol] {
			tx.Notes[protocol][i].IsChange = true
		}
	}
}

// AddOutgoingMetadata appends outgoing payments not already recorded on txid.
func (l *Ledger) AddOutgoingMetadata(txid model.TxID, status model.ConfirmationStatus, datetime uint64, metadata []model.OutgoingMetadata) {
	if len(metadata) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx := l.ensureTx(txid, status, datetime)
	for _, m := range metadata {
		if containsOutgoing(tx.Outgoing, m) {
			continue
		}
		m.Memo.Raw = append([]byte(nil), m.Memo.Raw...)
		tx.Outgoing = append(tx.Outgoing, m)
	}
}

// SetPrice attaches a price to txid unless one is already set.
func (l *Ledger) SetPrice(txid model.TxID, price float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if tx, ok := l.txs[txid]; ok && tx.Price == nil {
		tx.Price = &price
	}
}

// MarkFullTxScanned records that txid went through the full transaction pass.
func (l *Ledger) MarkFullTxScanned(txid model.TxID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if tx, ok := l.txs[txid]; ok {
		tx.FullTxScanned = true
	}
}

func matchNote(notes []model.Note, candidate model.Note) *model.Note {
	for i := range notes {
		n := &notes[i]
		if candidate.Nullifier != nil && n.Nullifier != nil && *n.Nullifier == *candidate.Nullifier {
			return n
		}
		if candidate.OutputIndex != nil && n.OutputIndex != nil && *n.OutputIndex == *candidate.OutputIndex {
			return n
		}
	}
	return nil
}

func mergeNote(dst *model.Note, src model.Note) {
	src = src.Clone()
	if dst.Nullifier == nil {
		dst.Nullifier = src.Nullifier
	}
	if dst.Position == nil {
		dst.Position = src.Position
	}
	if dst.OutputIndex == nil {
		dst.OutputIndex = src.OutputIndex
	}
	if dst.Witnesses.IsEmpty() {
		dst.Witnesses = src.Witnesses
	}
	if dst.Memo == nil {
		dst.Memo = src.Memo
	}
	dst.HaveSpendingKey = dst.HaveSpendingKey || src.HaveSpendingKey
}

func containsOutgoing(list []model.OutgoingMetadata, m model.OutgoingMetadata) bool {
	for _, o := range list {
		if o.Equal(m) {
			return true
		}
	}
	return false
}
