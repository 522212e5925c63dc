package blaze

import (
	"context"
	"time"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/archive"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/broker"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/chain"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/domain"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/keys"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/ledger"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/txparser"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Source interface {
		LatestHeight(ctx context.Context) (uint64, error)
		BlockRange(ctx context.Context, start, end uint64) (chain.BlockStream, error)
		Transaction(ctx context.Context, txid model.TxID) (model.RawTransaction, error)
		TreeState(ctx context.Context, height uint64) (model.TreeState, error)
		TaddressTransactions(ctx context.Context, address string, start, end uint64) (chain.RawTxStream, error)
		MempoolStream(ctx context.Context) (chain.RawTxStream, error)
	}

	// Domain is one shielded pool.
	Domain interface {
		Protocol() model.Protocol
		CompactOutputs(tx *model.CompactTx) []model.CompactOutput
		CompactSpends(tx *model.CompactTx) []model.Nullifier
		FullOutputs(tx *txparser.Transaction) []domain.FullOutput
		FullSpends(tx *txparser.Transaction) []model.Nullifier
		TrialDecrypt(vks []keys.ViewingKey, outputs []model.CompactOutput) ([]domain.TrialHit, error)
		Decrypt(vk keys.ViewingKey, out domain.FullOutput) (domain.DecryptedNote, bool, error)
		RecoverOutgoing(vk keys.ViewingKey, out domain.FullOutput) (domain.RecoveredOutput, bool, error)
		DeriveNullifier(vk keys.ViewingKey, note domain.DecryptedNote, position uint64) (model.Nullifier, error)
		Frontier(ts model.TreeState) []byte
		WitnessAt(height uint64, frontier []byte, commitments [][32]byte, index int) (model.Witness, error)
		ExtendWitness(w model.Witness, height uint64, commitments [][32]byte) (model.Witness, error)
		OutgoingViewingKey(vk keys.ViewingKey) []byte
	}

	KeyStore interface {
		ViewingKeys(protocol model.Protocol) []keys.ViewingKey
		TransparentAddresses() []string
		IsWalletAddress(addr string) bool
		Decoder() *keys.AddressDecoder
	}

	Ledger interface {
		AddNewNote(txid model.TxID, status model.ConfirmationStatus, datetime uint64, note model.Note) (bool, error)
		AddPendingNote(txid model.TxID, height uint64, datetime uint64, note model.Note) (bool, error)
		GetNotesForUpdating(beforeHeight uint64) []ledger.NoteRef
		Note(txid model.TxID, nf model.Nullifier) (model.Note, error)
		GetNoteWitnesses(txid model.TxID, nf model.Nullifier) (model.WitnessCache, uint64, error)
		SetNoteWitnesses(txid model.TxID, nf model.Nullifier, cache model.WitnessCache) error
		AddMemoToNote(txid model.TxID, protocol model.Protocol, outputIndex uint32, memo model.Memo) bool
		MarkNotesAsChange(txid model.TxID)
		AddOutgoingMetadata(txid model.TxID, status model.ConfirmationStatus, datetime uint64, metadata []model.OutgoingMetadata)
		SetPrice(txid model.TxID, price float64)
		MarkFullTxScanned(txid model.TxID)
		MarkSpentAndCredit(claim ledger.SpendClaim) (uint64, error)
		AddNewSpent(spendingTxID model.TxID, height uint64, status model.ConfirmationStatus, datetime uint64, nf model.Nullifier, value uint64, sourceTxID model.TxID) error
		UnspentNullifiers(protocol model.Protocol) []ledger.UnspentNullifier
		ClearExpiredMempool(cutoff uint64) []model.TxID
		AddTransparentOutput(txid model.TxID, status model.ConfirmationStatus, datetime uint64, utxo model.UTXO) bool
		MarkUTXOSpent(prevTxID model.TxID, index uint32, spendingTxID model.TxID, status model.ConfirmationStatus) (uint64, bool)
		SetTransparentSpent(txid model.TxID, status model.ConfirmationStatus, datetime uint64, total uint64)
		Transaction(txid model.TxID) (model.TxRecord, bool)
		LastSyncedHeight() uint64
		SetLastSyncedHeight(height uint64)
		Save() ([]byte, error)
	}

	// Archive holds the nullifiers and commitments of the blocks a session scans.
	Archive interface {
		Run(ctx context.Context, blocks <-chan model.CompactBlock) error
		Wait(ctx context.Context) error
		IsNullifierSpent(nf model.Nullifier, fromHeight uint64) (archive.Spend, bool, error)
		BlockCommitments(protocol model.Protocol, height uint64) ([][32]byte, bool)
		OutputPosition(protocol model.Protocol, height uint64, txid model.TxID, outputIndex uint32) (int, bool)
		BlockTime(height uint64) (uint32, bool)
		Tip() uint64
	}

	TxScanner interface {
		Scan(ctx context.Context, tx *txparser.Transaction, status model.ConfirmationStatus, datetime uint64, price *float64) (ScanResult, error)
	}

	Metrics interface {
		ObserveBlockFetch(err error, blocks uint64, started time.Time)
		ObserveTrialBatch(err error, blocks int, started time.Time)
		ObserveNoteUpdate(err error, spent bool, started time.Time)
		ObserveTxScan(err error, origin string, started time.Time)
	}

	SyncerMetrics interface {
		ObserveFetchTip(err error, started time.Time)
		ObserveSession(err error, blocks uint64, started time.Time)
		SetHeights(synced, tip uint64)
	}

	SnapshotStore interface {
		Save(ctx context.Context, height uint64, data []byte) error
	}

	EventPublisher interface {
		Publish(ctx context.Context, events ...broker.Event) error
	}

	// SessionRunner runs one sync over a height range.
	SessionRunner interface {
		Run(ctx context.Context, start, end uint64) (Report, error)
	}
)
