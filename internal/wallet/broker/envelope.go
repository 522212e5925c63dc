package broker

import "encoding/json"

// Event kinds.
const (
	KindSyncCompleted = "SyncCompleted"
	KindNoteDetected  = "NoteDetected"
	KindNoteSpent     = "NoteSpent"
	KindMempoolTx     = "MempoolTransaction"
)

var routes = map[string]string{
	KindSyncCompleted: "sync.completed",
	KindNoteDetected:  "note.detected",
	KindNoteSpent:     "note.spent",
	KindMempoolTx:     "mempool.tx",
}

// Envelope wraps every published payload.
type Envelope struct {
	Version string          `json:"version"`
	Kind    string          `json:"kind"`
	Network string          `json:"network"`
	Height  uint64          `json:"height"`
	Payload json.RawMessage `json:"payload"`
}

type SyncCompletedPayload struct {
	From             uint64 `json:"from"`
	To               uint64 `json:"to"`
	BlocksDownloaded uint64 `json:"blocks_downloaded"`
	NotesDetected    uint64 `json:"notes_detected"`
	SpendsFound      uint64 `json:"spends_found"`
	FullTxScanned    uint64 `json:"full_tx_scanned"`
	FailedTxs        int    `json:"failed_txs"`
}

type NoteDetectedPayload struct {
	TxID        string `json:"txid"`
	Protocol    string `json:"protocol"`
	Nullifier   string `json:"nullifier"`
	Height      uint64 `json:"height"`
	OutputIndex uint32 `json:"output_index"`
}

type NoteSpentPayload struct {
	TxID       string `json:"txid"`
	SourceTxID string `json:"source_txid"`
	Protocol   string `json:"protocol"`
	Nullifier  string `json:"nullifier"`
	Height     uint64 `json:"height"`
	Value      uint64 `json:"value"`
}

type MempoolTxPayload struct {
	TxID   string `json:"txid"`
	Height uint64 `json:"height"`
}
