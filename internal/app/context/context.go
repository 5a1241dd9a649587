// Package appctx provides a scope for one unit of work in an application
// service.
//
// Scope extends Go's context.Context with memoized loading of aggregates and
// a dirty list of the ones that must be saved. Loading the same key twice
// returns the same instance, so a card move within one board mutates a single
// board value and saves it once:
//
//	sc := appctx.New(ctx)
//	src, err := appctx.GetOrFetch(sc, "board:7", loadBoard)
//	dst, err := appctx.GetOrFetch(sc, "board:7", loadBoard) // same pointer as src
//	sc.MarkDirty("board:7")
//	for _, b := range appctx.Dirty[*board.Board](sc) { ... save ... }
package appctx

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// ErrTypeMismatch is returned by GetOrFetch when a cached value's type does
// not match the requested type T. This indicates a programming error where
// the same cache key is used with different types.
var ErrTypeMismatch = errors.New("appctx: cached value type mismatch")

// Scope memoizes values for the duration of one unit of work.
// It is NOT safe for concurrent use from multiple goroutines.
type Scope struct {
	context.Context
	cache map[string]cacheEntry
	dirty []string
}

// cacheEntry stores the result of a GetOrFetch call, including any error.
type cacheEntry struct {
	value any
	err   error
}

// New creates a Scope wrapping the given context.Context.
func New(ctx context.Context) *Scope {
	return &Scope{
		Context: ctx,
		cache:   make(map[string]cacheEntry),
	}
}

// GetOrFetch returns a cached value for the given key, or calls fetchFn to
// fetch and cache it. Both successful results and errors are cached to
// prevent redundant calls within the same scope.
//
// The same key must always be used with the same type T. If a cached value
// exists but its type does not match T, GetOrFetch returns ErrTypeMismatch.
func GetOrFetch[T any](sc *Scope, key string, fetchFn func(ctx context.Context) (T, error)) (T, error) {
	if entry, ok := sc.cache[key]; ok {
		if entry.err != nil {
			var zero T
			return zero, entry.err
		}
		v, ok := entry.value.(T)
		if !ok {
			var zero T
			return zero, fmt.Errorf("%w: key %q holds %T, requested %T", ErrTypeMismatch, key, entry.value, zero)
		}
		return v, nil
	}

	val, err := fetchFn(sc.Context)
	sc.cache[key] = cacheEntry{value: val, err: err}
	return val, err
}

// DataProvider binds a cache key and fetch function together.
type DataProvider[T any] struct {
	key     string
	fetchFn func(ctx context.Context) (T, error)
}

// NewDataProvider creates a DataProvider with the given cache key and fetch
// function.
func NewDataProvider[T any](key string, fetchFn func(ctx context.Context) (T, error)) *DataProvider[T] {
	return &DataProvider[T]{key: key, fetchFn: fetchFn}
}

// Get returns the cached value or fetches it.
func (p *DataProvider[T]) Get(sc *Scope) (T, error) {
	return GetOrFetch(sc, p.key, p.fetchFn)
}

// Key returns the cache key the provider reads.
func (p *DataProvider[T]) Key() string {
	return p.key
}

// MarkDirty records that the value under key was modified. Marking a key
// twice keeps its first position.
func (sc *Scope) MarkDirty(key string) {
	if !slices.Contains(sc.dirty, key) {
		sc.dirty = append(sc.dirty, key)
	}
}

// Dirty returns the cached values of type T that were marked dirty, in the
// order they were first marked. Keys holding errors or other types are skipped.
func Dirty[T any](sc *Scope) []T {
	var out []T
	for _, key := range sc.dirty {
		entry, ok := sc.cache[key]
		if !ok || entry.err != nil {
			continue
		}
		if v, ok := entry.value.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
