package blaze

import (
	"context"
	"sync"
)

// queue is an unbounded FIFO. Push never blocks.
type queue[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	ready  chan struct{}
}

func newQueue[T any]() *queue[T] {
	return &queue[T]{ready: make(chan struct{}, 1)}
}

func (q *queue[T]) Push(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.signal()
}

// Close marks the end of input. Items already pushed are still delivered.
func (q *queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

func (q *queue[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *queue[T]) pop() (item T, ok bool, closed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return item, false, q.closed
	}
	item = q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	return item, true, false
}

// Out drains the queue into a channel that is closed once the queue is closed and empty,
// or when ctx is done.
func (q *queue[T]) Out(ctx context.Context) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for {
			item, ok, closed := q.pop()
			if closed {
				return
			}
			if !ok {
				select {
				case <-ctx.Done():
					return
				case <-q.ready:
				}
				continue
			}
			select {
			case <-ctx.Done():
				return
			case out <- item:
			}
		}
	}()
	return out
}
