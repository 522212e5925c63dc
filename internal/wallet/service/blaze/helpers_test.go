package blaze

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/keys"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/txparser"
)

const (
	v4Header            = uint32(4) | 1<<31
	v4VersionGroup      = uint32(0x892F2085)
	saplingSpendV4Size  = 32*4 + 192 + 64
	saplingOutputV4Size = 32*3 + 580 + 80 + 192
)

type fakeBlockStream struct {
	blocks []model.CompactBlock
	err    error
}

func (s *fakeBlockStream) Recv() (model.CompactBlock, error) {
	if len(s.blocks) == 0 {
		if s.err != nil {
			return model.CompactBlock{}, s.err
		}
		return model.CompactBlock{}, io.EOF
	}
	b := s.blocks[0]
	s.blocks = s.blocks[1:]
	return b, nil
}

type fakeRawTxStream struct {
	txs []model.RawTransaction
	err error
}

func (s *fakeRawTxStream) Recv() (model.RawTransaction, error) {
	if len(s.txs) == 0 {
		if s.err != nil {
			return model.RawTransaction{}, s.err
		}
		return model.RawTransaction{}, io.EOF
	}
	tx := s.txs[0]
	s.txs = s.txs[1:]
	return tx, nil
}

// rawTx encodes a v4 transaction with the given transparent parts, sapling spend nullifiers and
// number of sapling outputs. Everything else is zero.
type rawTx struct {
	inputs         []txparser.TxIn
	outputs        []txparser.TxOut
	saplingSpends  [][32]byte
	saplingOutputs int
	lockTime       uint32
}

func (r rawTx) encode() []byte {
	var b bytes.Buffer
	u32 := func(v uint32) { _ = binary.Write(&b, binary.LittleEndian, v) }
	u64 := func(v uint64) { _ = binary.Write(&b, binary.LittleEndian, v) }
	count := func(n int) { _ = wire.WriteVarInt(&b, 0, uint64(n)) }

	u32(v4Header)
	u32(v4VersionGroup)
	count(len(r.inputs))
	for _, in := range r.inputs {
		b.Write(in.PrevTxID[:])
		u32(in.PrevIndex)
		_ = wire.WriteVarBytes(&b, 0, in.Script)
		u32(in.Sequence)
	}
	count(len(r.outputs))
	for _, out := range r.outputs {
		u64(out.Value)
		_ = wire.WriteVarBytes(&b, 0, out.Script)
	}
	u32(r.lockTime)
	u32(0) // expiry
	u64(0) // value balance

	count(len(r.saplingSpends))
	for _, nf := range r.saplingSpends {
		spend := make([]byte, saplingSpendV4Size)
		copy(spend[64:96], nf[:])
		b.Write(spend)
	}
	count(r.saplingOutputs)
	b.Write(make([]byte, r.saplingOutputs*saplingOutputV4Size))
	count(0) // joinsplits
	if len(r.saplingSpends)+r.saplingOutputs > 0 {
		b.Write(make([]byte, 64))
	}
	return b.Bytes()
}

func (r rawTx) parse(t *testing.T) *txparser.Transaction {
	t.Helper()
	tx, err := txparser.Parse(r.encode())
	if err != nil {
		t.Fatalf("parse test transaction: %v", err)
	}
	return tx
}

func p2pkh(hash byte) []byte {
	script := []byte{0x76, 0xa9, 0x14}
	script = append(script, bytes.Repeat([]byte{hash}, 20)...)
	return append(script, 0x88, 0xac)
}

func p2pkhAddress(t *testing.T, hash byte) string {
	t.Helper()
	d, err := keys.NewAddressDecoder(model.Mainnet)
	if err != nil {
		t.Fatal(err)
	}
	addr, err := d.DecodeScript(p2pkh(hash))
	if err != nil {
		t.Fatal(err)
	}
	return addr
}

func newKeyStore(t *testing.T, viewing []keys.ViewingKey, taddrs ...string) *keys.Store {
	t.Helper()
	s, err := keys.NewStore(model.Mainnet, viewing, taddrs)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func saplingKey(address string, spending bool) keys.ViewingKey {
	return keys.ViewingKey{
		Protocol:        model.Sapling,
		IncomingKey:     []byte{0x01},
		OutgoingKey:     []byte{0x02},
		FullViewingKey:  []byte{0x03},
		Address:         address,
		HaveSpendingKey: spending,
	}
}

func txid(b byte) model.TxID {
	var id model.TxID
	id[0] = b
	return id
}

func saplingNullifier(b byte) model.Nullifier {
	nf := model.Nullifier{Protocol: model.Sapling}
	nf.Value[0] = b
	return nf
}

func commitment(b byte) []byte {
	return bytes.Repeat([]byte{b}, 32)
}

// chainBlocks builds linked compact blocks for heights start..end. txs maps a height to its
// transactions.
func chainBlocks(start, end uint64, txs map[uint64][]model.CompactTx) []model.CompactBlock {
	var out []model.CompactBlock
	prev := []byte{0xff}
	for h := start; h <= end; h++ {
		hash := make([]byte, 32)
		binary.LittleEndian.PutUint64(hash, h)
		out = append(out, model.CompactBlock{
			Height:   h,
			Hash:     hash,
			PrevHash: prev,
			Time:     uint32(1_700_000_000 + h),
			Txs:      txs[h],
		})
		prev = hash
	}
	return out
}

func saplingTx(id model.TxID, spends []model.Nullifier, outputs ...byte) model.CompactTx {
	tx := model.CompactTx{TxID: id, SaplingSpends: spends}
	for _, o := range outputs {
		tx.SaplingOutputs = append(tx.SaplingOutputs, model.CompactOutput{
			Commitment:   commitment(o),
			EphemeralKey: commitment(o + 1),
			Ciphertext:   make([]byte, 52),
		})
	}
	return tx
}
