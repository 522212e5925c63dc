package model

// SpendRef points at the transaction that spent a note or UTXO.
type SpendRef struct {
	TxID   TxID
	Height uint64
}

// Note is a shielded note owned by one of the wallet's keys.
type Note struct {
	Protocol        Protocol
	KeyIndex        int
	Diversifier     []byte
	Value           uint64
	Data            []byte
	Recipient       string
	Position        *uint64
	OutputIndex     *uint32
	Nullifier       *Nullifier
	Spent           *SpendRef
	PendingSpent    *TxID
	Memo            *Memo
	IsChange        bool
	HaveSpendingKey bool
	Witnesses       WitnessCache
}

// SpendStatusKind is the derived spend state of a note.
type SpendStatusKind uint8

const (
	Unspent SpendStatusKind = iota
	PendingSpend
	ConfirmedSpend
)

// SpendStatus is a read-only view of Spent and PendingSpent.
type SpendStatus struct {
	Kind   SpendStatusKind
	TxID   TxID
	Height uint64
}

func (n *Note) SpendStatus() SpendStatus {
	switch {
	case n.Spent != nil:
		return SpendStatus{Kind: ConfirmedSpend, TxID: n.Spent.TxID, Height: n.Spent.Height}
	case n.PendingSpent != nil:
		return SpendStatus{Kind: PendingSpend, TxID: *n.PendingSpent}
	default:
		return SpendStatus{Kind: Unspent}
	}
}

// IsSpentAtOrBefore reports whether the note is confirmed spent no later than height.
func (n *Note) IsSpentAtOrBefore(height uint64) bool {
	return n.Spent != nil && n.Spent.Height <= height
}

// Clone deep copies the note.
func (n Note) Clone() Note {
	n.Diversifier = append([]byte(nil), n.Diversifier...)
	n.Data = append([]byte(nil), n.Data...)
	if n.Position != nil {
		p := *n.Position
		n.Position = &p
	}
	if n.OutputIndex != nil {
		i := *n.OutputIndex
		n.OutputIndex = &i
	}
	if n.Nullifier != nil {
		nf := *n.Nullifier
		n.Nullifier = &nf
	}
	if n.Spent != nil {
		s := *n.Spent
		n.Spent = &s
	}
	if n.PendingSpent != nil {
		p := *n.PendingSpent
		n.PendingSpent = &p
	}
	if n.Memo != nil {
		m := *n.Memo
		m.Raw = append([]byte(nil), m.Raw...)
		n.Memo = &m
	}
	n.Witnesses = n.Witnesses.Clone()
	return n
}

// UTXO is a transparent output paying one of the wallet's addresses.
type UTXO struct {
	Address      string
	TxID         TxID
	OutputIndex  uint32
	Script       []byte
	Value        uint64
	Height       uint64
	Spent        *SpendRef
	PendingSpent *TxID
}

func (u UTXO) Clone() UTXO {
	u.Script = append([]byte(nil), u.Script...)
	if u.Spent != nil {
		s := *u.Spent
		u.Spent = &s
	}
	if u.PendingSpent != nil {
		p := *u.PendingSpent
		u.PendingSpent = &p
	}
	return u
}

// OutgoingMetadata describes a payment the wallet sent.
type OutgoingMetadata struct {
	Address string
	Value   uint64
	Memo    Memo
}

func (o OutgoingMetadata) Equal(other OutgoingMetadata) bool {
	return o.Address == other.Address && o.Value == other.Value && o.Memo.Equal(other.Memo)
}
