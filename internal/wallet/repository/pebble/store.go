// Package pebble persists ledger snapshots in an embedded Pebble database.
package pebble

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	pdb "github.com/cockroachdb/pebble"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

const (
	schemaVersion = "1"
	// DefaultHistory is how many older snapshots are retained behind the latest one.
	DefaultHistory = 3
)

// ErrNoSnapshot is returned when the store holds no snapshot for the network.
var ErrNoSnapshot = errors.New("no wallet snapshot")

// SnapshotStore keeps the latest ledger snapshot per network plus a short history keyed by height.
type SnapshotStore struct {
	mu      sync.Mutex
	db      *pdb.DB
	network model.Network
	history int
}

func Open(path string, network model.Network) (*SnapshotStore, error) {
	if path == "" {
		return nil, errors.New("pebble: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("pebble: mkdir: %w", err)
	}
	return open(path, network, &pdb.Options{})
}

func open(path string, network model.Network, opts *pdb.Options) (*SnapshotStore, error) {
	db, err := pdb.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("pebble: open: %w", err)
	}
	s := &SnapshotStore{db: db, network: network, history: DefaultHistory}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SnapshotStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SnapshotStore) migrate() error {
	key := []byte("meta/schema_version")
	v, closer, err := s.db.Get(key)
	if err == nil {
		defer closer.Close()
		if string(v) != schemaVersion {
			return fmt.Errorf("pebble: unsupported schema version %q", v)
		}
		return nil
	}
	if !errors.Is(err, pdb.ErrNotFound) {
		return fmt.Errorf("pebble: schema_version: %w", err)
	}
	if err := s.db.Set(key, []byte(schemaVersion), pdb.Sync); err != nil {
		return fmt.Errorf("pebble: set schema_version: %w", err)
	}
	return nil
}

// Save stores data as the latest snapshot taken at height and prunes old history.
func (s *SnapshotStore) Save(ctx context.Context, height uint64, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.db.NewBatch()
	defer batch.Close()

	if err := batch.Set(s.latestKey(), encodeLatest(height, data), pdb.NoSync); err != nil {
		return fmt.Errorf("pebble: set latest: %w", err)
	}
	if err := batch.Set(s.historyKey(height), data, pdb.NoSync); err != nil {
		return fmt.Errorf("pebble: set history: %w", err)
	}
	if height > uint64(s.history) {
		if err := batch.DeleteRange(s.historyKey(0), s.historyKey(height-uint64(s.history)), pdb.NoSync); err != nil {
			return fmt.Errorf("pebble: prune history: %w", err)
		}
	}
	if err := batch.Commit(pdb.Sync); err != nil {
		return fmt.Errorf("pebble: commit snapshot: %w", err)
	}
	return nil
}

// Load returns the latest snapshot and the height it was taken at.
func (s *SnapshotStore) Load(ctx context.Context) ([]byte, uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	v, closer, err := s.db.Get(s.latestKey())
	if errors.Is(err, pdb.ErrNotFound) {
		return nil, 0, ErrNoSnapshot
	}
	if err != nil {
		return nil, 0, fmt.Errorf("pebble: get latest: %w", err)
	}
	defer closer.Close()

	height, data, err := decodeLatest(v)
	if err != nil {
		return nil, 0, err
	}
	return data, height, nil
}

// LoadAt returns the newest retained snapshot taken at or below height.
func (s *SnapshotStore) LoadAt(ctx context.Context, height uint64) ([]byte, uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	prefix := s.historyPrefix()
	iter, err := s.db.NewIter(&pdb.IterOptions{
		LowerBound: prefix,
		UpperBound: s.historyKey(height + 1),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("pebble: iter history: %w", err)
	}
	defer iter.Close()

	if !iter.Last() {
		if err := iter.Error(); err != nil {
			return nil, 0, fmt.Errorf("pebble: iter history: %w", err)
		}
		return nil, 0, ErrNoSnapshot
	}
	key := iter.Key()
	if !bytes.HasPrefix(key, prefix) || len(key) != len(prefix)+8 {
		return nil, 0, fmt.Errorf("pebble: malformed history key %x", key)
	}
	at := binary.BigEndian.Uint64(key[len(prefix):])
	return bytes.Clone(iter.Value()), at, nil
}

func (s *SnapshotStore) latestKey() []byte {
	return []byte("wallet/" + string(s.network) + "/latest")
}

func (s *SnapshotStore) historyPrefix() []byte {
	return []byte("wallet/" + string(s.network) + "/history/")
}

func (s *SnapshotStore) historyKey(height uint64) []byte {
	return binary.BigEndian.AppendUint64(s.historyPrefix(), height)
}

func encodeLatest(height uint64, data []byte) []byte {
	out := make([]byte, 8, 8+len(data))
	binary.BigEndian.PutUint64(out, height)
	return append(out, data...)
}

func decodeLatest(v []byte) (uint64, []byte, error) {
	if len(v) < 8 {
		return 0, nil, fmt.Errorf("pebble: latest snapshot too short (%d bytes)", len(v))
	}
	return binary.BigEndian.Uint64(v[:8]), bytes.Clone(v[8:]), nil
}
