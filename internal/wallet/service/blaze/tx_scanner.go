package blaze

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/txparser"
	"go.uber.org/zap"
)

// ScanResult describes what a full transaction scan recorded.
type ScanResult struct {
	Relevant bool
	Outgoing bool
	Notes    int
	Spends   int
}

// Scanner is the authoritative pass over a full transaction. Rescanning a transaction leaves the
// ledger unchanged.
type Scanner struct {
	domains []Domain
	keys    KeyStore
	ledger  Ledger
	logger  *zap.Logger
}

func NewScanner(domains []Domain, keys KeyStore, ledger Ledger, logger *zap.Logger) *Scanner {
	return &Scanner{
		domains: domains,
		keys:    keys,
		ledger:  ledger,
		logger:  logger,
	}
}

// Scan records everything tx tells about the wallet under status.
func (s *Scanner) Scan(ctx context.Context, tx *txparser.Transaction, status model.ConfirmationStatus, datetime uint64, price *float64) (ScanResult, error) {
	var res ScanResult
	if err := ctx.Err(); err != nil {
		return res, err
	}
	txid := tx.TxID()

	foreign := s.scanTransparentOutputs(tx, status, datetime, &res)
	s.scanTransparentInputs(tx, status, datetime, &res)

	var outgoing []model.OutgoingMetadata
	for _, dom := range s.domains {
		if status.IsPending() {
			if err := s.scanPendingSpends(dom, tx, status, datetime, &res); err != nil {
				return res, err
			}
		}
		if err := s.scanOutputs(dom, tx, status, datetime, &res); err != nil {
			return res, err
		}
		recovered, err := s.recoverOutgoing(dom, tx)
		if err != nil {
			return res, err
		}
		outgoing = append(outgoing, recovered...)
	}

	if record, ok := s.ledger.Transaction(txid); ok && record.IsOutgoing() {
		res.Outgoing = true
		outgoing = append(outgoing, foreign...)
		s.ledger.MarkNotesAsChange(txid)
	}
	if len(outgoing) > 0 {
		s.ledger.AddOutgoingMetadata(txid, status, datetime, outgoing)
		res.Relevant = true
	}

	if _, ok := s.ledger.Transaction(txid); !ok {
		return res, nil
	}
	res.Relevant = true
	if price != nil {
		s.ledger.SetPrice(txid, *price)
	}
	s.ledger.MarkFullTxScanned(txid)

	s.logger.Debug("transaction scanned",
		zap.Stringer("txid", txid),
		zap.Stringer("status", status),
		zap.Bool("outgoing", res.Outgoing),
		zap.Int("notes", res.Notes),
		zap.Int("spends", res.Spends))
	return res, nil
}

// scanTransparentOutputs records outputs paying wallet addresses and returns the others as
// candidate outgoing payments.
func (s *Scanner) scanTransparentOutputs(tx *txparser.Transaction, status model.ConfirmationStatus, datetime uint64, res *ScanResult) []model.OutgoingMetadata {
	txid := tx.TxID()
	decoder := s.keys.Decoder()

	var foreign []model.OutgoingMetadata
	for i, out := range tx.Outputs {
		addr, err := decoder.DecodeScript(out.Script)
		if err != nil {
			continue
		}
		if !s.keys.IsWalletAddress(addr) {
			foreign = append(foreign, model.OutgoingMetadata{Address: addr, Value: out.Value})
			continue
		}
		s.ledger.AddTransparentOutput(txid, status, datetime, model.UTXO{
			Address:     addr,
			TxID:        txid,
			OutputIndex: uint32(i),
			Script:      out.Script,
			Value:       out.Value,
			Height:      status.Height,
		})
		res.Relevant = true
	}
	return foreign
}

func (s *Scanner) scanTransparentInputs(tx *txparser.Transaction, status model.ConfirmationStatus, datetime uint64, res *ScanResult) {
	if tx.IsCoinbase() {
		return
	}
	txid := tx.TxID()

	var total uint64
	spent := false
	for _, in := range tx.Inputs {
		value, ok := s.ledger.MarkUTXOSpent(in.PrevTxID, in.PrevIndex, txid, status)
		if !ok {
			continue
		}
		spent = true
		total += value
	}
	if spent {
		s.ledger.SetTransparentSpent(txid, status, datetime, total)
		res.Relevant = true
	}
}

// scanPendingSpends credits unconfirmed spends of wallet notes. Confirmed spends come from the
// block archive instead.
func (s *Scanner) scanPendingSpends(dom Domain, tx *txparser.Transaction, status model.ConfirmationStatus, datetime uint64, res *ScanResult) error {
	spends := dom.FullSpends(tx)
	if len(spends) == 0 {
		return nil
	}

	unspent := s.ledger.UnspentNullifiers(dom.Protocol())
	byNullifier := make(map[model.Nullifier]int, len(unspent))
	for i, u := range unspent {
		byNullifier[u.Nullifier] = i
	}

	txid := tx.TxID()
	for _, nf := range spends {
		i, ok := byNullifier[nf]
		if !ok {
			continue
		}
		u := unspent[i]
		if err := s.ledger.AddNewSpent(txid, status.Height, status, datetime, nf, u.Value, u.TxID); err != nil {
			return err
		}
		res.Spends++
		res.Relevant = true
	}
	return nil
}

// scanOutputs decrypts every output with every key. Confirmed notes already exist from trial
// decryption and only receive their memo; unconfirmed ones are recorded as pending.
func (s *Scanner) scanOutputs(dom Domain, tx *txparser.Transaction, status model.ConfirmationStatus, datetime uint64, res *ScanResult) error {
	protocol := dom.Protocol()
	vks := s.keys.ViewingKeys(protocol)
	if len(vks) == 0 {
		return nil
	}
	txid := tx.TxID()

	for _, out := range dom.FullOutputs(tx) {
		for _, vk := range vks {
			dec, ok, err := dom.Decrypt(vk, out)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			memo := model.DecodeMemo(dec.Memo)
			res.Relevant = true
			res.Notes++

			if status.IsPending() {
				index := out.Index
				_, err = s.ledger.AddPendingNote(txid, status.Height, datetime, model.Note{
					Protocol:        protocol,
					KeyIndex:        vk.Index,
					Diversifier:     dec.Diversifier,
					Value:           dec.Value,
					Data:            dec.Data,
					Recipient:       dec.Recipient,
					OutputIndex:     &index,
					Memo:            &memo,
					HaveSpendingKey: vk.HaveSpendingKey,
				})
				if err != nil {
					return fmt.Errorf("pending %s note %d: %w", protocol, out.Index, err)
				}
			} else if !s.ledger.AddMemoToNote(txid, protocol, out.Index, memo) {
				s.logger.Debug("decrypted output has no trial-decrypted note",
					zap.Stringer("txid", txid),
					zap.String("protocol", string(protocol)),
					zap.Uint32("output", out.Index))
			}
			break
		}
	}
	return nil
}

// recoverOutgoing decrypts outputs with the outgoing viewing keys. Change back to the wallet
// without a memo is not a payment.
func (s *Scanner) recoverOutgoing(dom Domain, tx *txparser.Transaction) ([]model.OutgoingMetadata, error) {
	vks := s.keys.ViewingKeys(dom.Protocol())
	if len(vks) == 0 {
		return nil, nil
	}

	var out []model.OutgoingMetadata
	for _, o := range dom.FullOutputs(tx) {
		for _, vk := range vks {
			rec, ok, err := dom.RecoverOutgoing(vk, o)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			memo := model.DecodeMemo(rec.Memo)
			if s.keys.IsWalletAddress(rec.Recipient) && memo.IsEmpty() {
				break
			}
			out = append(out, model.OutgoingMetadata{Address: rec.Recipient, Value: rec.Value, Memo: memo})
			break
		}
	}
	return out, nil
}
