// Package txparser decodes raw v4 and v5 shielded transactions and computes their ids.
package txparser

import (
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

const (
	overwinteredFlag = uint32(1) << 31

	versionSapling = 4
	versionNU5     = 5

	versionGroupSapling = 0x892F2085
	versionGroupNU5     = 0x26A7270A

	encCiphertextSize = 580
	outCiphertextSize = 80
	grothProofSize    = 192
	signatureSize     = 64

	// compactCiphertextSize is the ciphertext prefix carried by compact blocks.
	compactCiphertextSize = 52
	memoEnd               = compactCiphertextSize + model.MemoSize
)

// Transaction is a parsed transaction. Byte arrays keep consensus encoding order.
type Transaction struct {
	Version           uint32
	VersionGroupID    uint32
	ConsensusBranchID uint32
	LockTime          uint32
	ExpiryHeight      uint32

	Inputs  []TxIn
	Outputs []TxOut

	SaplingSpends       []SaplingSpend
	SaplingOutputs      []SaplingOutput
	SaplingValueBalance int64
	SaplingBindingSig   [signatureSize]byte

	JoinSplits int

	OrchardActions      []OrchardAction
	OrchardFlags        byte
	OrchardValueBalance int64
	OrchardAnchor       [32]byte
	OrchardProof        []byte
	OrchardBindingSig   [signatureSize]byte

	txid model.TxID
}

type TxIn struct {
	PrevTxID  model.TxID
	PrevIndex uint32
	Script    []byte
	Sequence  uint32
}

type TxOut struct {
	Value  uint64
	Script []byte
}

type SaplingSpend struct {
	CV        [32]byte
	Anchor    [32]byte
	Nullifier [32]byte
	Rk        [32]byte
	Proof     [grothProofSize]byte
	AuthSig   [signatureSize]byte
}

type SaplingOutput struct {
	CV            [32]byte
	Cmu           [32]byte
	EphemeralKey  [32]byte
	EncCiphertext [encCiphertextSize]byte
	OutCiphertext [outCiphertextSize]byte
	Proof         [grothProofSize]byte
}

type OrchardAction struct {
	CV            [32]byte
	Nullifier     [32]byte
	Rk            [32]byte
	Cmx           [32]byte
	EphemeralKey  [32]byte
	EncCiphertext [encCiphertextSize]byte
	OutCiphertext [outCiphertextSize]byte
	AuthSig       [signatureSize]byte
}

// TxID returns the id computed while parsing.
func (t *Transaction) TxID() model.TxID { return t.txid }

// IsCoinbase reports whether the only input spends the null outpoint.
func (t *Transaction) IsCoinbase() bool {
	return len(t.Inputs) == 1 && t.Inputs[0].PrevTxID == (model.TxID{}) && t.Inputs[0].PrevIndex == 0xffffffff
}

// HasShielded reports whether the transaction carries any Sapling or Orchard data.
func (t *Transaction) HasShielded() bool {
	return len(t.SaplingSpends)+len(t.SaplingOutputs)+len(t.OrchardActions) > 0
}
