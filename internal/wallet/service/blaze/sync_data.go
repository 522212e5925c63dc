package blaze

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/chain"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

// ErrSessionCanceled is returned by stages that observe the cancel flag.
var ErrSessionCanceled = errors.New("sync session canceled")

type (
	// Progress is a snapshot of the session counters.
	Progress struct {
		BlocksDownloaded     uint64
		TrialDecryptionsDone uint64
		FullTxScanned        uint64
		NotesDetected        uint64
		SpendsFound          uint64
	}

	// DetectedNote is a note found by trial decryption, or a pre-existing note when
	// OutputIndex is nil.
	DetectedNote struct {
		TxID        model.TxID
		Nullifier   model.Nullifier
		Height      uint64
		OutputIndex *uint32
	}

	SpentNote struct {
		TxID       model.TxID
		SourceTxID model.TxID
		Nullifier  model.Nullifier
		Height     uint64
		Value      uint64
	}

	FailedTx struct {
		TxID model.TxID
		Err  error
	}

	// TxRequest asks the full transaction fetcher to scan a transaction.
	TxRequest struct {
		TxID     model.TxID
		Height   uint64
		Datetime uint64
		Origin   string
	}

	// Report summarizes one session.
	Report struct {
		Start     uint64
		End       uint64
		Progress  Progress
		Detected  []DetectedNote
		Spends    []SpentNote
		FailedTxs []FailedTx
	}
)

// SyncData is the state shared by the stages of one session.
type SyncData struct {
	Start      uint64
	End        uint64
	MemoPolicy model.MemoPolicy
	TreeStates *chain.TreeStateResolver

	blocksDownloaded     atomic.Uint64
	trialDecryptionsDone atomic.Uint64
	fullTxScanned        atomic.Uint64
	notesDetected        atomic.Uint64
	spendsFound          atomic.Uint64
	cancelled            *atomic.Bool

	mu       sync.Mutex
	detected []DetectedNote
	spends   []SpentNote
	failures []FailedTx
}

func newSyncData(start, end uint64, policy model.MemoPolicy, treeStates *chain.TreeStateResolver, cancelled *atomic.Bool) *SyncData {
	if cancelled == nil {
		cancelled = new(atomic.Bool)
	}
	return &SyncData{
		Start:      start,
		End:        end,
		MemoPolicy: policy,
		TreeStates: treeStates,
		cancelled:  cancelled,
	}
}

// Low and High return the range bounds regardless of scan direction.
func (d *SyncData) Low() uint64  { return min(d.Start, d.End) }
func (d *SyncData) High() uint64 { return max(d.Start, d.End) }

func (d *SyncData) canceled() error {
	if d.cancelled.Load() {
		return ErrSessionCanceled
	}
	return nil
}

// treeBefore returns the commitment trees as of the end of the block preceding height. Nothing
// precedes the genesis block, so its trees are empty.
func (d *SyncData) treeBefore(ctx context.Context, height uint64) (model.TreeState, error) {
	if height == 0 {
		return model.TreeState{}, nil
	}
	return d.TreeStates.Resolve(ctx, height-1)
}

func (d *SyncData) recordDetected(n DetectedNote) {
	d.notesDetected.Add(1)
	d.mu.Lock()
	d.detected = append(d.detected, n)
	d.mu.Unlock()
}

func (d *SyncData) recordSpend(s SpentNote) {
	d.spendsFound.Add(1)
	d.mu.Lock()
	d.spends = append(d.spends, s)
	d.mu.Unlock()
}

func (d *SyncData) recordFailure(txid model.TxID, err error) {
	d.mu.Lock()
	d.failures = append(d.failures, FailedTx{TxID: txid, Err: err})
	d.mu.Unlock()
}

func (d *SyncData) Progress() Progress {
	return Progress{
		BlocksDownloaded:     d.blocksDownloaded.Load(),
		TrialDecryptionsDone: d.trialDecryptionsDone.Load(),
		FullTxScanned:        d.fullTxScanned.Load(),
		NotesDetected:        d.notesDetected.Load(),
		SpendsFound:          d.spendsFound.Load(),
	}
}

func (d *SyncData) report() Report {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Report{
		Start:     d.Start,
		End:       d.End,
		Progress:  d.Progress(),
		Detected:  append([]DetectedNote(nil), d.detected...),
		Spends:    append([]SpentNote(nil), d.spends...),
		FailedTxs: append([]FailedTx(nil), d.failures...),
	}
}
