package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

const snapshotVersion = 1

type snapshot struct {
	Version          int              `json:"version"`
	LastSyncedHeight uint64           `json:"last_synced_height"`
	Transactions     []model.TxRecord `json:"transactions"`
}

// Save serializes the ledger.
func (l *Ledger) Save() ([]byte, error) {
	txs := l.Transactions()

	data, err := json.Marshal(snapshot{
		Version:          snapshotVersion,
		LastSyncedHeight: l.LastSyncedHeight(),
		Transactions:     txs,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal ledger snapshot: %w", err)
	}
	return data, nil
}

// Load replaces the ledger contents with a snapshot produced by Save.
func (l *Ledger) Load(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("unmarshal ledger snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("unsupported ledger snapshot version %d", snap.Version)
	}

	txs := make(map[model.TxID]*model.TxRecord, len(snap.Transactions))
	for i := range snap.Transactions {
		rec := snap.Transactions[i].Clone()
		for _, notes := range rec.Notes {
			for _, n := range notes {
				if !n.Witnesses.Monotonic() {
					return model.Violation("load ledger", "witness checkpoints out of order in %s", rec.TxID)
				}
			}
		}
		txs[rec.TxID] = &rec
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.txs = txs
	l.lastSyncedHeight = snap.LastSyncedHeight
	return nil
}
