package domain

import (
	"errors"
	"fmt"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/keys"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/txparser"
)

var errMissingFullViewingKey = errors.New("viewing key has no full viewing key")

// Domain is one shielded pool. The zero value is unusable; use NewSapling or NewOrchard.
type Domain struct {
	protocol   model.Protocol
	primitives Primitives
}

func NewSapling(p Primitives) *Domain {
	return &Domain{protocol: model.Sapling, primitives: p}
}

func NewOrchard(p Primitives) *Domain {
	return &Domain{protocol: model.Orchard, primitives: p}
}

func (d *Domain) Protocol() model.Protocol { return d.protocol }

// CompactOutputs returns the pool's outputs of a compact transaction in bundle order.
func (d *Domain) CompactOutputs(tx *model.CompactTx) []model.CompactOutput {
	if d.protocol == model.Sapling {
		return tx.SaplingOutputs
	}
	return tx.OrchardOutputs
}

func (d *Domain) CompactSpends(tx *model.CompactTx) []model.Nullifier {
	if d.protocol == model.Sapling {
		return tx.SaplingSpends
	}
	return tx.OrchardSpends
}

// FullOutputs returns the pool's outputs of a parsed transaction in bundle order.
func (d *Domain) FullOutputs(tx *txparser.Transaction) []FullOutput {
	if d.protocol == model.Sapling {
		out := make([]FullOutput, len(tx.SaplingOutputs))
		for i := range tx.SaplingOutputs {
			o := &tx.SaplingOutputs[i]
			out[i] = FullOutput{
				Index:         uint32(i),
				CV:            o.CV,
				Commitment:    o.Cmu,
				EphemeralKey:  o.EphemeralKey,
				EncCiphertext: o.EncCiphertext[:],
				OutCiphertext: o.OutCiphertext[:],
			}
		}
		return out
	}
	out := make([]FullOutput, len(tx.OrchardActions))
	for i := range tx.OrchardActions {
		a := &tx.OrchardActions[i]
		out[i] = FullOutput{
			Index:         uint32(i),
			CV:            a.CV,
			Commitment:    a.Cmx,
			EphemeralKey:  a.EphemeralKey,
			EncCiphertext: a.EncCiphertext[:],
			OutCiphertext: a.OutCiphertext[:],
		}
	}
	return out
}

// FullSpends returns the nullifiers revealed by the pool's spends of a parsed transaction.
func (d *Domain) FullSpends(tx *txparser.Transaction) []model.Nullifier {
	if d.protocol == model.Sapling {
		out := make([]model.Nullifier, len(tx.SaplingSpends))
		for i, s := range tx.SaplingSpends {
			out[i] = model.Nullifier{Protocol: d.protocol, Value: s.Nullifier}
		}
		return out
	}
	out := make([]model.Nullifier, len(tx.OrchardActions))
	for i, a := range tx.OrchardActions {
		out[i] = model.Nullifier{Protocol: d.protocol, Value: a.Nullifier}
	}
	return out
}

// TrialDecrypt runs batched trial decryption of outputs against vks.
func (d *Domain) TrialDecrypt(vks []keys.ViewingKey, outputs []model.CompactOutput) ([]TrialHit, error) {
	if len(vks) == 0 || len(outputs) == 0 {
		return nil, nil
	}
	ivks := make([][]byte, len(vks))
	for i, vk := range vks {
		ivks[i] = vk.IncomingKey
	}
	compact := make([]CompactOutput, len(outputs))
	for i, o := range outputs {
		c, err := toCompact(o)
		if err != nil {
			return nil, model.NewDecodeError(fmt.Sprintf("%s output %d", d.protocol, i), err)
		}
		compact[i] = c
	}

	hits, err := d.primitives.TrialDecrypt(ivks, compact)
	if err != nil {
		return nil, fmt.Errorf("%s trial decrypt: %w", d.protocol, err)
	}
	for _, h := range hits {
		if h.OutputIndex < 0 || h.OutputIndex >= len(outputs) || h.KeyIndex < 0 || h.KeyIndex >= len(vks) {
			return nil, fmt.Errorf("%s trial decrypt: hit out of range (output %d, key %d)", d.protocol, h.OutputIndex, h.KeyIndex)
		}
	}
	return hits, nil
}

func (d *Domain) Decrypt(vk keys.ViewingKey, out FullOutput) (DecryptedNote, bool, error) {
	note, ok, err := d.primitives.Decrypt(vk.IncomingKey, out)
	if err != nil {
		return DecryptedNote{}, false, fmt.Errorf("%s decrypt output %d: %w", d.protocol, out.Index, err)
	}
	return note, ok, nil
}

func (d *Domain) RecoverOutgoing(vk keys.ViewingKey, out FullOutput) (RecoveredOutput, bool, error) {
	ovk := d.OutgoingViewingKey(vk)
	if len(ovk) == 0 {
		return RecoveredOutput{}, false, nil
	}
	rec, ok, err := d.primitives.RecoverOutgoing(ovk, out)
	if err != nil {
		return RecoveredOutput{}, false, fmt.Errorf("%s recover output %d: %w", d.protocol, out.Index, err)
	}
	return rec, ok, nil
}

// DeriveNullifier computes the nullifier of a note at a tree position.
func (d *Domain) DeriveNullifier(vk keys.ViewingKey, note DecryptedNote, position uint64) (model.Nullifier, error) {
	if len(vk.FullViewingKey) == 0 {
		return model.Nullifier{}, fmt.Errorf("%s key %d: %w", d.protocol, vk.Index, errMissingFullViewingKey)
	}
	nf, err := d.primitives.Nullifier(vk.FullViewingKey, note, position)
	if err != nil {
		return model.Nullifier{}, fmt.Errorf("%s nullifier: %w", d.protocol, err)
	}
	return model.Nullifier{Protocol: d.protocol, Value: nf}, nil
}

// Frontier selects the pool's tree from a tree state.
func (d *Domain) Frontier(ts model.TreeState) []byte {
	return ts.Frontier(d.protocol)
}

// WitnessAt builds the witness of the index-th commitment of a block as of the end of that block.
// frontier is the tree at the end of the previous block.
func (d *Domain) WitnessAt(height uint64, frontier []byte, commitments [][32]byte, index int) (model.Witness, error) {
	if index < 0 || index >= len(commitments) {
		return model.Witness{}, fmt.Errorf("%s witness: commitment index %d of %d", d.protocol, index, len(commitments))
	}
	state, err := d.primitives.Witness(frontier, commitments, index)
	if err != nil {
		return model.Witness{}, fmt.Errorf("%s witness at %d: %w", d.protocol, height, err)
	}
	return model.Witness{Height: height, Position: state.Position, Data: state.Data}, nil
}

// ExtendWitness advances w over the commitments of block height.
func (d *Domain) ExtendWitness(w model.Witness, height uint64, commitments [][32]byte) (model.Witness, error) {
	if height <= w.Height {
		return model.Witness{}, model.Violation("extend witness", "height %d not above checkpoint %d", height, w.Height)
	}
	data := w.Data
	if len(commitments) > 0 {
		var err error
		data, err = d.primitives.ExtendWitness(w.Data, commitments)
		if err != nil {
			return model.Witness{}, fmt.Errorf("%s extend witness to %d: %w", d.protocol, height, err)
		}
	}
	return model.Witness{Height: height, Position: w.Position, Data: append([]byte(nil), data...)}, nil
}

func (d *Domain) OutgoingViewingKey(vk keys.ViewingKey) []byte {
	return vk.OutgoingKey
}

func toCompact(o model.CompactOutput) (CompactOutput, error) {
	var c CompactOutput
	if len(o.Commitment) != len(c.Commitment) {
		return c, fmt.Errorf("commitment length %d", len(o.Commitment))
	}
	if len(o.EphemeralKey) != len(c.EphemeralKey) {
		return c, fmt.Errorf("ephemeral key length %d", len(o.EphemeralKey))
	}
	copy(c.Commitment[:], o.Commitment)
	copy(c.EphemeralKey[:], o.EphemeralKey)
	c.Ciphertext = o.Ciphertext
	return c, nil
}
