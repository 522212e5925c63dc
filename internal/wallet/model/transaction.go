package model

// TxRecord is the ledger entry for one wallet-relevant transaction.
type TxRecord struct {
	TxID                       TxID
	Status                     ConfirmationStatus
	Datetime                   uint64
	Notes                      map[Protocol][]Note
	UTXOs                      []UTXO
	SpentNullifiers            map[Protocol][]Nullifier
	ShieldedValueSpent         map[Protocol]uint64
	TotalTransparentValueSpent uint64
	Outgoing                   []OutgoingMetadata
	Price                      *float64
	FullTxScanned              bool
}

// NewTxRecord returns an empty record with initialized maps.
func NewTxRecord(txid TxID, status ConfirmationStatus, datetime uint64) *TxRecord {
	return &TxRecord{
		TxID:               txid,
		Status:             status,
		Datetime:           datetime,
		Notes:              make(map[Protocol][]Note),
		SpentNullifiers:    make(map[Protocol][]Nullifier),
		ShieldedValueSpent: make(map[Protocol]uint64),
	}
}

// TotalValueSpent sums shielded and transparent value the transaction took from the wallet.
func (t *TxRecord) TotalValueSpent() uint64 {
	total := t.TotalTransparentValueSpent
	for _, v := range t.ShieldedValueSpent {
		total += v
	}
	return total
}

// IsOutgoing reports whether the transaction spent wallet funds.
func (t *TxRecord) IsOutgoing() bool {
	return t.TotalValueSpent() > 0
}

// Clone deep copies the record so callers can read it outside the ledger lock.
func (t *TxRecord) Clone() TxRecord {
	out := *t
	out.Notes = make(map[Protocol][]Note, len(t.Notes))
	for p, notes := range t.Notes {
		cp := make([]Note, len(notes))
		for i, n := range notes {
			cp[i] = n.Clone()
		}
		out.Notes[p] = cp
	}
	out.UTXOs = make([]UTXO, len(t.UTXOs))
	for i, u := range t.UTXOs {
		out.UTXOs[i] = u.Clone()
	}
	out.SpentNullifiers = make(map[Protocol][]Nullifier, len(t.SpentNullifiers))
	for p, nfs := range t.SpentNullifiers {
		out.SpentNullifiers[p] = append([]Nullifier(nil), nfs...)
	}
	out.ShieldedValueSpent = make(map[Protocol]uint64, len(t.ShieldedValueSpent))
	for p, v := range t.ShieldedValueSpent {
		out.ShieldedValueSpent[p] = v
	}
	out.Outgoing = make([]OutgoingMetadata, len(t.Outgoing))
	for i, o := range t.Outgoing {
		o.Memo.Raw = append([]byte(nil), o.Memo.Raw...)
		out.Outgoing[i] = o
	}
	if t.Price != nil {
		p := *t.Price
		out.Price = &p
	}
	return out
}
