package model

// CompactOutput carries the fields needed to trial-decrypt a shielded output.
type CompactOutput struct {
	Commitment   []byte
	EphemeralKey []byte
	Ciphertext   []byte
}

// CompactTx is a transaction reduced to its shielded spends and outputs.
type CompactTx struct {
	Index          uint64
	TxID           TxID
	SaplingSpends  []Nullifier
	SaplingOutputs []CompactOutput
	OrchardSpends  []Nullifier
	OrchardOutputs []CompactOutput
}

// OutputCount is the number of shielded outputs across both pools.
func (t *CompactTx) OutputCount() int {
	return len(t.SaplingOutputs) + len(t.OrchardOutputs)
}

// CompactBlock is an immutable block as streamed by the light wallet server.
type CompactBlock struct {
	Height   uint64
	Hash     []byte
	PrevHash []byte
	Time     uint32
	Txs      []CompactTx
}

// TreeState is the note commitment tree frontier of each pool at the end of Height.
type TreeState struct {
	Height      uint64
	Hash        string
	Time        uint32
	SaplingTree []byte
	OrchardTree []byte
}

// Frontier selects the serialized tree of a protocol.
func (t TreeState) Frontier(protocol Protocol) []byte {
	switch protocol {
	case Sapling:
		return t.SaplingTree
	case Orchard:
		return t.OrchardTree
	default:
		return nil
	}
}
