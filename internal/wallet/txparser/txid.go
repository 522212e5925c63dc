package txparser

import (
	"encoding/binary"
	"hash"

	"github.com/btcsuite/btcd/wire"
	blake2b "github.com/minio/blake2b-simd"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

// BLAKE2b personalizations of the v5 txid digest tree.
const (
	personalTxHash = "ZcashTxHash_"

	personalHeaders     = "ZTxIdHeadersHash"
	personalTransparent = "ZTxIdTranspaHash"
	personalPrevouts    = "ZTxIdPrevoutHash"
	personalSequence    = "ZTxIdSequencHash"
	personalOutputs     = "ZTxIdOutputsHash"

	personalSapling           = "ZTxIdSaplingHash"
	personalSaplingSpends     = "ZTxIdSSpendsHash"
	personalSaplingSpendsC    = "ZTxIdSSpendCHash"
	personalSaplingSpendsN    = "ZTxIdSSpendNHash"
	personalSaplingOutputs    = "ZTxIdSOutputHash"
	personalSaplingOutputsC   = "ZTxIdSOutC__Hash"
	personalSaplingOutputsM   = "ZTxIdSOutM__Hash"
	personalSaplingOutputsN   = "ZTxIdSOutN__Hash"
	personalOrchard           = "ZTxIdOrchardHash"
	personalOrchardActionsC   = "ZTxIdOrcActCHash"
	personalOrchardActionsM   = "ZTxIdOrcActMHash"
	personalOrchardActionsN   = "ZTxIdOrcActNHash"
	personalizationSize       = 16
	branchIDPersonalizeOffset = 12
)

func newDigest(personal []byte) hash.Hash {
	h, _ := blake2b.New(&blake2b.Config{Size: 32, Person: personal})
	return h
}

func digestOf(personal string, write func(h hash.Hash)) [32]byte {
	h := newDigest([]byte(personal))
	if write != nil {
		write(h)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func computeTxIDv5(tx *Transaction) model.TxID {
	personal := make([]byte, personalizationSize)
	copy(personal, personalTxHash)
	binary.LittleEndian.PutUint32(personal[branchIDPersonalizeOffset:], tx.ConsensusBranchID)

	header := headerDigest(tx)
	transparent := transparentDigest(tx)
	sapling := saplingDigest(tx)
	orchard := orchardDigest(tx)

	h := newDigest(personal)
	h.Write(header[:])
	h.Write(transparent[:])
	h.Write(sapling[:])
	h.Write(orchard[:])

	var id model.TxID
	copy(id[:], h.Sum(nil))
	return id
}

func headerDigest(tx *Transaction) [32]byte {
	return digestOf(personalHeaders, func(h hash.Hash) {
		writeUint32(h, tx.Version|overwinteredFlag)
		writeUint32(h, tx.VersionGroupID)
		writeUint32(h, tx.ConsensusBranchID)
		writeUint32(h, tx.LockTime)
		writeUint32(h, tx.ExpiryHeight)
	})
}

func transparentDigest(tx *Transaction) [32]byte {
	if len(tx.Inputs) == 0 && len(tx.Outputs) == 0 {
		return digestOf(personalTransparent, nil)
	}
	prevouts := digestOf(personalPrevouts, func(h hash.Hash) {
		for _, in := range tx.Inputs {
			h.Write(in.PrevTxID[:])
			writeUint32(h, in.PrevIndex)
		}
	})
	sequence := digestOf(personalSequence, func(h hash.Hash) {
		for _, in := range tx.Inputs {
			writeUint32(h, in.Sequence)
		}
	})
	outputs := digestOf(personalOutputs, func(h hash.Hash) {
		for _, out := range tx.Outputs {
			writeUint64(h, out.Value)
			_ = wire.WriteVarBytes(h, protocolVersion, out.Script)
		}
	})
	return digestOf(personalTransparent, func(h hash.Hash) {
		h.Write(prevouts[:])
		h.Write(sequence[:])
		h.Write(outputs[:])
	})
}

func saplingDigest(tx *Transaction) [32]byte {
	if len(tx.SaplingSpends) == 0 && len(tx.SaplingOutputs) == 0 {
		return digestOf(personalSapling, nil)
	}

	spends := digestOf(personalSaplingSpends, func(h hash.Hash) {
		if len(tx.SaplingSpends) == 0 {
			return
		}
		compact := digestOf(personalSaplingSpendsC, func(h hash.Hash) {
			for _, s := range tx.SaplingSpends {
				h.Write(s.Nullifier[:])
			}
		})
		noncompact := digestOf(personalSaplingSpendsN, func(h hash.Hash) {
			for _, s := range tx.SaplingSpends {
				h.Write(s.CV[:])
				h.Write(s.Anchor[:])
				h.Write(s.Rk[:])
			}
		})
		h.Write(compact[:])
		h.Write(noncompact[:])
	})

	outputs := digestOf(personalSaplingOutputs, func(h hash.Hash) {
		if len(tx.SaplingOutputs) == 0 {
			return
		}
		compact := digestOf(personalSaplingOutputsC, func(h hash.Hash) {
			for _, o := range tx.SaplingOutputs {
				h.Write(o.Cmu[:])
				h.Write(o.EphemeralKey[:])
				h.Write(o.EncCiphertext[:compactCiphertextSize])
			}
		})
		memos := digestOf(personalSaplingOutputsM, func(h hash.Hash) {
			for _, o := range tx.SaplingOutputs {
				h.Write(o.EncCiphertext[compactCiphertextSize:memoEnd])
			}
		})
		noncompact := digestOf(personalSaplingOutputsN, func(h hash.Hash) {
			for _, o := range tx.SaplingOutputs {
				h.Write(o.CV[:])
				h.Write(o.EncCiphertext[memoEnd:])
				h.Write(o.OutCiphertext[:])
			}
		})
		h.Write(compact[:])
		h.Write(memos[:])
		h.Write(noncompact[:])
	})

	return digestOf(personalSapling, func(h hash.Hash) {
		h.Write(spends[:])
		h.Write(outputs[:])
		writeUint64(h, uint64(tx.SaplingValueBalance))
	})
}

func orchardDigest(tx *Transaction) [32]byte {
	if len(tx.OrchardActions) == 0 {
		return digestOf(personalOrchard, nil)
	}
	compact := digestOf(personalOrchardActionsC, func(h hash.Hash) {
		for _, a := range tx.OrchardActions {
			h.Write(a.Nullifier[:])
			h.Write(a.Cmx[:])
			h.Write(a.EphemeralKey[:])
			h.Write(a.EncCiphertext[:compactCiphertextSize])
		}
	})
	memos := digestOf(personalOrchardActionsM, func(h hash.Hash) {
		for _, a := range tx.OrchardActions {
			h.Write(a.EncCiphertext[compactCiphertextSize:memoEnd])
		}
	})
	noncompact := digestOf(personalOrchardActionsN, func(h hash.Hash) {
		for _, a := range tx.OrchardActions {
			h.Write(a.CV[:])
			h.Write(a.Rk[:])
			h.Write(a.EncCiphertext[memoEnd:])
			h.Write(a.OutCiphertext[:])
		}
	})
	return digestOf(personalOrchard, func(h hash.Hash) {
		h.Write(compact[:])
		h.Write(memos[:])
		h.Write(noncompact[:])
		h.Write([]byte{tx.OrchardFlags})
		writeUint64(h, uint64(tx.OrchardValueBalance))
		h.Write(tx.OrchardAnchor[:])
	})
}

func writeUint32(h hash.Hash, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	h.Write(b[:])
}

func writeUint64(h hash.Hash, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	h.Write(b[:])
}
