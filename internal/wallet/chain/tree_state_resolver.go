package chain

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"golang.org/x/sync/singleflight"
)

// TreeStateResolver caches tree states by height for the duration of a sync. Entries are only ever
// added; concurrent misses for the same height share one server call.
type TreeStateResolver struct {
	source TreeStateSource

	mu     sync.RWMutex
	states map[uint64]model.TreeState
	order  []uint64

	group singleflight.Group
}

// NewTreeStateResolver constructs an empty resolver over source.
func NewTreeStateResolver(source TreeStateSource) *TreeStateResolver {
	return &TreeStateResolver{
		source: source,
		states: make(map[uint64]model.TreeState),
	}
}

// Seed records a tree state obtained elsewhere. An existing entry for the same height wins.
func (r *TreeStateResolver) Seed(ts model.TreeState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(ts)
}

// Resolve returns the tree state at the end of height, consulting the cache first.
func (r *TreeStateResolver) Resolve(ctx context.Context, height uint64) (model.TreeState, error) {
	if ts, ok := r.cached(height); ok {
		return ts, nil
	}

	v, err, _ := r.group.Do(strconv.FormatUint(height, 10), func() (any, error) {
		if ts, ok := r.cached(height); ok {
			return ts, nil
		}
		ts, err := r.source.TreeState(ctx, height)
		if err != nil {
			return nil, fmt.Errorf("tree state at %d: %w", height, err)
		}
		if ts.Height != height {
			return nil, model.NewDecodeError(fmt.Sprintf("tree state at %d", height),
				fmt.Errorf("server returned height %d", ts.Height))
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		return r.add(ts), nil
	})
	if err != nil {
		return model.TreeState{}, err
	}
	return v.(model.TreeState), nil
}

// Heights lists the cached heights in the order they were added.
func (r *TreeStateResolver) Heights() []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]uint64(nil), r.order...)
}

func (r *TreeStateResolver) cached(height uint64) (model.TreeState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ts, ok := r.states[height]
	return ts, ok
}

// add stores ts unless the height is known and returns the stored entry. Callers hold the write lock.
func (r *TreeStateResolver) add(ts model.TreeState) model.TreeState {
	if existing, ok := r.states[ts.Height]; ok {
		return existing
	}
	r.states[ts.Height] = ts
	r.order = append(r.order, ts.Height)
	return ts
}
