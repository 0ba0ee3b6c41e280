// Package workerpool runs independent jobs across a bounded set of worker
// goroutines while preserving input order in the results.
package workerpool

import (
	"context"
	"sync"
)

// Map applies fn to every item using at most workers goroutines and returns
// the results in input order. workers <= 1 degenerates to a sequential loop.
// A cancelled context stops dispatching; already-started jobs finish and
// undispatched slots keep their zero value.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) R) []R {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}

	if workers <= 1 {
		for i := range items {
			if ctx.Err() != nil {
				break
			}
			results[i] = fn(ctx, items[i])
		}
		return results
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = fn(ctx, items[i])
			}
		}()
	}

	for i := range items {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return results
		}
	}
	close(jobs)
	wg.Wait()
	return results
}
