// Package workerpool runs bounded groups of goroutines over work items.
package workerpool

import (
	"context"
	"errors"
	"sync"
)

// Process runs process over items on workerCount goroutines.
// The first failing item cancels the remaining work and its error is returned.
// onCancel, when set, fires once at that moment.
func Process[T any](
	ctx context.Context,
	workerCount int,
	items []T,
	process func(context.Context, T) error,
	onCancel func(),
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			if onCancel != nil {
				onCancel()
			}
			cancel()
		})
	}

	tasks := feed(ctx, items)
	spawn(workerCount, func() {
		for item := range tasks {
			if ctx.Err() != nil {
				return
			}
			if err := process(ctx, item); err != nil {
				fail(err)
				return
			}
		}
	})

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// Drain runs process for every item received from items until the channel is
// closed or ctx is done. A failing item does not stop the pool: all failures
// are joined into the returned error once every worker has exited.
func Drain[T any](
	ctx context.Context,
	workerCount int,
	items <-chan T,
	process func(context.Context, T) error,
) error {
	var (
		mu   sync.Mutex
		errs []error
	)

	spawn(workerCount, func() {
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-items:
				if !ok {
					return
				}
				if err := process(ctx, item); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}
		}
	})

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func feed[T any](ctx context.Context, items []T) <-chan T {
	tasks := make(chan T)
	go func() {
		defer close(tasks)
		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			case tasks <- item:
			}
		}
	}()
	return tasks
}

func spawn(workerCount int, work func()) {
	if workerCount < 1 {
		workerCount = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Go(work)
	}
	wg.Wait()
}
