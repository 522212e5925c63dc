// Package domain adapts the Sapling and Orchard pools to a common interface over opaque
// cryptographic primitives.
package domain

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// Primitives are the cryptographic operations of one shielded protocol.
type Primitives interface {
	// TrialDecrypt tries every incoming viewing key against every compact output.
	TrialDecrypt(ivks [][]byte, outputs []CompactOutput) ([]TrialHit, error)
	// Decrypt fully decrypts an output, memo included. ok is false when the key does not match.
	Decrypt(ivk []byte, out FullOutput) (note DecryptedNote, ok bool, err error)
	// RecoverOutgoing decrypts an output the wallet sent using its outgoing viewing key.
	RecoverOutgoing(ovk []byte, out FullOutput) (rec RecoveredOutput, ok bool, err error)
	Nullifier(fvk []byte, note DecryptedNote, position uint64) ([32]byte, error)
	// Witness builds the witness of commitments[index] from the tree frontier that precedes them.
	Witness(frontier []byte, commitments [][32]byte, index int) (WitnessState, error)
	// ExtendWitness appends commitments to the tree behind an existing witness.
	ExtendWitness(witness []byte, commitments [][32]byte) ([]byte, error)
}

// CompactOutput is the trial-decryptable part of an output.
type CompactOutput struct {
	Commitment   [32]byte
	EphemeralKey [32]byte
	Ciphertext   []byte
}

// FullOutput is an output taken from a full transaction.
type FullOutput struct {
	Index         uint32
	CV            [32]byte
	Commitment    [32]byte
	EphemeralKey  [32]byte
	EncCiphertext []byte
	OutCiphertext []byte
}

// TrialHit is a successful trial decryption of outputs[OutputIndex] with ivks[KeyIndex].
type TrialHit struct {
	OutputIndex int
	KeyIndex    int
	Note        DecryptedNote
}

// DecryptedNote is a note plaintext. Memo is empty for compact decryption.
type DecryptedNote struct {
	Value       uint64
	Diversifier []byte
	Recipient   string
	Data        []byte
	Memo        []byte
}

// RecoveredOutput is an outgoing payment recovered with an outgoing viewing key.
type RecoveredOutput struct {
	Recipient string
	Value     uint64
	Memo      []byte
}

// WitnessState is a serialized incremental witness and the leaf position it authenticates.
type WitnessState struct {
	Position uint64
	Data     []byte
}
