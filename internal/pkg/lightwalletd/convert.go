package lightwalletd

import (
	"encoding/hex"
	"fmt"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"github.com/zcash/lightwalletd/walletrpc"
)

func compactBlockFromProto(b *walletrpc.CompactBlock) (model.CompactBlock, error) {
	if b == nil {
		return model.CompactBlock{}, model.NewDecodeError("compact block", fmt.Errorf("nil block"))
	}

	block := model.CompactBlock{
		Height:   b.GetHeight(),
		Hash:     append([]byte(nil), b.GetHash()...),
		PrevHash: append([]byte(nil), b.GetPrevHash()...),
		Time:     b.GetTime(),
		Txs:      make([]model.CompactTx, 0, len(b.GetVtx())),
	}
	for i, vtx := range b.GetVtx() {
		tx, err := compactTxFromProto(vtx)
		if err != nil {
			return model.CompactBlock{}, model.NewDecodeError(fmt.Sprintf("block %d tx %d", block.Height, i), err)
		}
		block.Txs = append(block.Txs, tx)
	}
	return block, nil
}

func compactTxFromProto(vtx *walletrpc.CompactTx) (model.CompactTx, error) {
	txid, err := model.TxIDFromBytes(vtx.GetHash())
	if err != nil {
		return model.CompactTx{}, err
	}

	tx := model.CompactTx{Index: vtx.GetIndex(), TxID: txid}
	for _, s := range vtx.GetSpends() {
		nf, err := model.NewNullifier(model.Sapling, s.GetNf())
		if err != nil {
			return model.CompactTx{}, err
		}
		tx.SaplingSpends = append(tx.SaplingSpends, nf)
	}
	for _, o := range vtx.GetOutputs() {
		tx.SaplingOutputs = append(tx.SaplingOutputs, model.CompactOutput{
			Commitment:   append([]byte(nil), o.GetCmu()...),
			EphemeralKey: append([]byte(nil), o.GetEphemeralKey()...),
			Ciphertext:   append([]byte(nil), o.GetCiphertext()...),
		})
	}
	for _, a := range vtx.GetActions() {
		nf, err := model.NewNullifier(model.Orchard, a.GetNullifier())
		if err != nil {
			return model.CompactTx{}, err
		}
		tx.OrchardSpends = append(tx.OrchardSpends, nf)
		tx.OrchardOutputs = append(tx.OrchardOutputs, model.CompactOutput{
			Commitment:   append([]byte(nil), a.GetCmx()...),
			EphemeralKey: append([]byte(nil), a.GetEphemeralKey()...),
			Ciphertext:   append([]byte(nil), a.GetCiphertext()...),
		})
	}
	return tx, nil
}

func treeStateFromProto(ts *walletrpc.TreeState) (model.TreeState, error) {
	sapling, err := hex.DecodeString(ts.GetSaplingTree())
	if err != nil {
		return model.TreeState{}, model.NewDecodeError(fmt.Sprintf("sapling tree at %d", ts.GetHeight()), err)
	}
	orchard, err := hex.DecodeString(ts.GetOrchardTree())
	if err != nil {
		return model.TreeState{}, model.NewDecodeError(fmt.Sprintf("orchard tree at %d", ts.GetHeight()), err)
	}
	return model.TreeState{
		Height:      ts.GetHeight(),
		Hash:        ts.GetHash(),
		Time:        ts.GetTime(),
		SaplingTree: sapling,
		OrchardTree: orchard,
	}, nil
}

func rawTransactionFromProto(tx *walletrpc.RawTransaction) model.RawTransaction {
	return model.RawTransaction{
		Data:   append([]byte(nil), tx.GetData()...),
		Height: tx.GetHeight(),
	}
}

func serverInfoFromProto(info *walletrpc.LightdInfo) model.ServerInfo {
	return model.ServerInfo{
		Version:       info.GetVersion(),
		Vendor:        info.GetVendor(),
		ChainName:     info.GetChainName(),
		BlockHeight:   info.GetBlockHeight(),
		SaplingHeight: info.GetSaplingActivationHeight(),
		Branch:        info.GetConsensusBranchId(),
	}
}
