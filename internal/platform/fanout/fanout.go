// Package fanout runs one function over many inputs on a bounded number of
// goroutines. The health registry uses it so that a slow dependency probe
// does not delay the others.
package fanout

import (
	"context"
	"sync"
)

// Result is the outcome for one input. Exactly one of Value or Err is
// meaningful.
type Result[R any] struct {
	Value R
	Err   error
}

// Run calls fn for every item with at most limit calls in flight and returns
// the results in input order. A limit below one means no bound.
//
// Items still waiting for a slot when ctx is done get ctx.Err() and fn is not
// called for them. Calls already running are left to observe ctx themselves.
func Run[T, R any](ctx context.Context, limit int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	if len(items) == 0 {
		return results
	}
	if limit < 1 || limit > len(items) {
		limit = len(items)
	}

	slots := make(chan struct{}, limit)
	var wg sync.WaitGroup
	wg.Add(len(items))

	for i := range items {
		go func() {
			defer wg.Done()

			select {
			case slots <- struct{}{}:
				defer func() { <-slots }()
			case <-ctx.Done():
				results[i].Err = ctx.Err()
				return
			}

			v, err := fn(ctx, items[i])
			results[i] = Result[R]{Value: v, Err: err}
		}()
	}

	wg.Wait()
	return results
}
