package txparser

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"github.com/goodnatureofminers/shieldsync-backend/pkg/safe"
)

const (
	// protocolVersion only matters to wire for message-size limits.
	protocolVersion = 0
	maxScriptSize   = 10_000
	maxProofSize    = 1 << 20

	txInMinSize            = 32 + 4 + 1 + 4
	txOutMinSize           = 8 + 1
	saplingSpendV4Size     = 32*4 + grothProofSize + signatureSize
	saplingOutputV4Size    = 32*3 + encCiphertextSize + outCiphertextSize + grothProofSize
	saplingSpendV5Size     = 32 * 3
	saplingOutputV5Size    = 32*3 + encCiphertextSize + outCiphertextSize
	joinSplitGrothSize     = 8 + 8 + 32 + 32*2 + 32*2 + 32 + 32 + 32*2 + grothProofSize + 601*2
	orchardActionFieldSize = 32*5 + encCiphertextSize + outCiphertextSize
)

// ErrUnsupportedVersion is returned for transaction versions other than v4 and v5.
var ErrUnsupportedVersion = errors.New("unsupported transaction version")

// Parse decodes a raw transaction and computes its id.
func Parse(raw []byte) (*Transaction, error) {
	tx, err := parse(raw)
	if err != nil {
		return nil, model.NewDecodeError("transaction", err)
	}
	return tx, nil
}

// ParseAndVerify parses raw and checks that it hashes to want.
func ParseAndVerify(raw []byte, want model.TxID) (*Transaction, error) {
	tx, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if tx.txid != want {
		return nil, model.NewDecodeError("transaction", fmt.Errorf("computed txid %s, want %s", tx.txid, want))
	}
	return tx, nil
}

func parse(raw []byte) (*Transaction, error) {
	r := bytes.NewReader(raw)
	tx := &Transaction{}

	header, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if header&overwinteredFlag == 0 {
		return nil, fmt.Errorf("%w: not overwintered (header %#x)", ErrUnsupportedVersion, header)
	}
	tx.Version = header &^ overwinteredFlag
	if tx.VersionGroupID, err = readUint32(r); err != nil {
		return nil, fmt.Errorf("reading version group id: %w", err)
	}

	switch {
	case tx.Version == versionSapling && tx.VersionGroupID == versionGroupSapling:
		if err := parseV4(r, tx); err != nil {
			return nil, err
		}
		tx.txid = chainhash.DoubleHashH(raw)
	case tx.Version == versionNU5 && tx.VersionGroupID == versionGroupNU5:
		if err := parseV5(r, tx); err != nil {
			return nil, err
		}
		tx.txid = computeTxIDv5(tx)
	default:
		return nil, fmt.Errorf("%w: v%d group %#x", ErrUnsupportedVersion, tx.Version, tx.VersionGroupID)
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes", r.Len())
	}
	return tx, nil
}

func parseV4(r *bytes.Reader, tx *Transaction) error {
	if err := parseTransparent(r, tx); err != nil {
		return err
	}
	var err error
	if tx.LockTime, err = readUint32(r); err != nil {
		return fmt.Errorf("reading lock time: %w", err)
	}
	if tx.ExpiryHeight, err = readUint32(r); err != nil {
		return fmt.Errorf("reading expiry height: %w", err)
	}
	if tx.SaplingValueBalance, err = readInt64(r); err != nil {
		return fmt.Errorf("reading value balance: %w", err)
	}

	nSpends, err := readCount(r, saplingSpendV4Size, "sapling spends")
	if err != nil {
		return err
	}
	tx.SaplingSpends = make([]SaplingSpend, nSpends)
	for i := range tx.SaplingSpends {
		s := &tx.SaplingSpends[i]
		if err := readFields(r, s.CV[:], s.Anchor[:], s.Nullifier[:], s.Rk[:], s.Proof[:], s.AuthSig[:]); err != nil {
			return fmt.Errorf("reading sapling spend %d: %w", i, err)
		}
	}

	nOutputs, err := readCount(r, saplingOutputV4Size, "sapling outputs")
	if err != nil {
		return err
	}
	tx.SaplingOutputs = make([]SaplingOutput, nOutputs)
	for i := range tx.SaplingOutputs {
		o := &tx.SaplingOutputs[i]
		if err := readFields(r, o.CV[:], o.Cmu[:], o.EphemeralKey[:], o.EncCiphertext[:], o.OutCiphertext[:], o.Proof[:]); err != nil {
			return fmt.Errorf("reading sapling output %d: %w", i, err)
		}
	}

	nJoinSplits, err := readCount(r, joinSplitGrothSize, "joinsplits")
	if err != nil {
		return err
	}
	tx.JoinSplits = nJoinSplits
	if nJoinSplits > 0 {
		// descriptors, joinSplitPubKey, joinSplitSig
		skip := int64(nJoinSplits)*joinSplitGrothSize + 32 + signatureSize
		if _, err := io.CopyN(io.Discard, r, skip); err != nil {
			return fmt.Errorf("reading joinsplits: %w", err)
		}
	}

	if nSpends+nOutputs > 0 {
		if err := readFields(r, tx.SaplingBindingSig[:]); err != nil {
			return fmt.Errorf("reading sapling binding sig: %w", err)
		}
	}
	return nil
}

func parseV5(r *bytes.Reader, tx *Transaction) error {
	var err error
	if tx.ConsensusBranchID, err = readUint32(r); err != nil {
		return fmt.Errorf("reading consensus branch id: %w", err)
	}
	if tx.LockTime, err = readUint32(r); err != nil {
		return fmt.Errorf("reading lock time: %w", err)
	}
	if tx.ExpiryHeight, err = readUint32(r); err != nil {
		return fmt.Errorf("reading expiry height: %w", err)
	}
	if err := parseTransparent(r, tx); err != nil {
		return err
	}
	if err := parseSaplingV5(r, tx); err != nil {
		return err
	}
	return parseOrchard(r, tx)
}

func parseTransparent(r *bytes.Reader, tx *Transaction) error {
	nIn, err := readCount(r, txInMinSize, "transparent inputs")
	if err != nil {
		return err
	}
	tx.Inputs = make([]TxIn, nIn)
	for i := range tx.Inputs {
		in := &tx.Inputs[i]
		if err := readFields(r, in.PrevTxID[:]); err != nil {
			return fmt.Errorf("reading input %d prevout: %w", i, err)
		}
		if in.PrevIndex, err = readUint32(r); err != nil {
			return fmt.Errorf("reading input %d prevout index: %w", i, err)
		}
		if in.Script, err = wire.ReadVarBytes(r, protocolVersion, maxScriptSize, "scriptSig"); err != nil {
			return fmt.Errorf("reading input %d script: %w", i, err)
		}
		if in.Sequence, err = readUint32(r); err != nil {
			return fmt.Errorf("reading input %d sequence: %w", i, err)
		}
	}

	nOut, err := readCount(r, txOutMinSize, "transparent outputs")
	if err != nil {
		return err
	}
	tx.Outputs = make([]TxOut, nOut)
	for i := range tx.Outputs {
		out := &tx.Outputs[i]
		if out.Value, err = readUint64(r); err != nil {
			return fmt.Errorf("reading output %d value: %w", i, err)
		}
		if out.Script, err = wire.ReadVarBytes(r, protocolVersion, maxScriptSize, "scriptPubKey"); err != nil {
			return fmt.Errorf("reading output %d script: %w", i, err)
		}
	}
	return nil
}

func parseSaplingV5(r *bytes.Reader, tx *Transaction) error {
	nSpends, err := readCount(r, saplingSpendV5Size, "sapling spends")
	if err != nil {
		return err
	}
	tx.SaplingSpends = make([]SaplingSpend, nSpends)
	for i := range tx.SaplingSpends {
		s := &tx.SaplingSpends[i]
		if err := readFields(r, s.CV[:], s.Nullifier[:], s.Rk[:]); err != nil {
			return fmt.Errorf("reading sapling spend %d: %w", i, err)
		}
	}

	nOutputs, err := readCount(r, saplingOutputV5Size, "sapling outputs")
	if err != nil {
		return err
	}
	tx.SaplingOutputs = make([]SaplingOutput, nOutputs)
	for i := range tx.SaplingOutputs {
		o := &tx.SaplingOutputs[i]
		if err := readFields(r, o.CV[:], o.Cmu[:], o.EphemeralKey[:], o.EncCiphertext[:], o.OutCiphertext[:]); err != nil {
			return fmt.Errorf("reading sapling output %d: %w", i, err)
		}
	}

	if nSpends+nOutputs == 0 {
		return nil
	}
	if tx.SaplingValueBalance, err = readInt64(r); err != nil {
		return fmt.Errorf("reading sapling value balance: %w", err)
	}
	if nSpends > 0 {
		var anchor [32]byte
		if err := readFields(r, anchor[:]); err != nil {
			return fmt.Errorf("reading sapling anchor: %w", err)
		}
		for i := range tx.SaplingSpends {
			tx.SaplingSpends[i].Anchor = anchor
		}
	}
	for i := range tx.SaplingSpends {
		if err := readFields(r, tx.SaplingSpends[i].Proof[:]); err != nil {
			return fmt.Errorf("reading sapling spend %d proof: %w", i, err)
		}
	}
	for i := range tx.SaplingSpends {
		if err := readFields(r, tx.SaplingSpends[i].AuthSig[:]); err != nil {
			return fmt.Errorf("reading sapling spend %d auth sig: %w", i, err)
		}
	}
	for i := range tx.SaplingOutputs {
		if err := readFields(r, tx.SaplingOutputs[i].Proof[:]); err != nil {
			return fmt.Errorf("reading sapling output %d proof: %w", i, err)
		}
	}
	if err := readFields(r, tx.SaplingBindingSig[:]); err != nil {
		return fmt.Errorf("reading sapling binding sig: %w", err)
	}
	return nil
}

func parseOrchard(r *bytes.Reader, tx *Transaction) error {
	nActions, err := readCount(r, orchardActionFieldSize, "orchard actions")
	if err != nil {
		return err
	}
	if nActions == 0 {
		return nil
	}
	tx.OrchardActions = make([]OrchardAction, nActions)
	for i := range tx.OrchardActions {
		a := &tx.OrchardActions[i]
		if err := readFields(r, a.CV[:], a.Nullifier[:], a.Rk[:], a.Cmx[:], a.EphemeralKey[:], a.EncCiphertext[:], a.OutCiphertext[:]); err != nil {
			return fmt.Errorf("reading orchard action %d: %w", i, err)
		}
	}

	if tx.OrchardFlags, err = r.ReadByte(); err != nil {
		return fmt.Errorf("reading orchard flags: %w", err)
	}
	if tx.OrchardValueBalance, err = readInt64(r); err != nil {
		return fmt.Errorf("reading orchard value balance: %w", err)
	}
	if err := readFields(r, tx.OrchardAnchor[:]); err != nil {
		return fmt.Errorf("reading orchard anchor: %w", err)
	}
	if tx.OrchardProof, err = wire.ReadVarBytes(r, protocolVersion, maxProofSize, "orchard proof"); err != nil {
		return fmt.Errorf("reading orchard proof: %w", err)
	}
	for i := range tx.OrchardActions {
		if err := readFields(r, tx.OrchardActions[i].AuthSig[:]); err != nil {
			return fmt.Errorf("reading orchard action %d auth sig: %w", i, err)
		}
	}
	if err := readFields(r, tx.OrchardBindingSig[:]); err != nil {
		return fmt.Errorf("reading orchard binding sig: %w", err)
	}
	return nil
}

// readCount reads a compact size and rejects counts that cannot fit in the remaining bytes.
func readCount(r *bytes.Reader, minItemSize int, what string) (int, error) {
	n, err := wire.ReadVarInt(r, protocolVersion)
	if err != nil {
		return 0, fmt.Errorf("reading %s count: %w", what, err)
	}
	if n > uint64(r.Len()/minItemSize) {
		return 0, fmt.Errorf("%s count %d exceeds remaining %d bytes", what, n, r.Len())
	}
	return safe.Int(n)
}

func readFields(r io.Reader, fields ...[]byte) error {
	for _, f := range fields {
		if _, err := io.ReadFull(r, f); err != nil {
			return err
		}
	}
	return nil
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func readInt64(r io.Reader) (int64, error) {
	v, err := readUint64(r)
	return int64(v), err
}
