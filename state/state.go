// Package state holds values shared between concurrent callers under a
// single-writer, multi-reader discipline. Grouping related values into
// one cell guarantees that observers never see a partially applied
// update.
package state

import (
	"sync"

	gojson "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Shared guards a value of type T. Keep every set of related values in
// one Shared so that Read and Snapshot observe them atomically.
type Shared[T any] struct {
	mu sync.RWMutex
	v  T
}

// NewShared returns a cell holding v.
func NewShared[T any](v T) *Shared[T] {
	return &Shared[T]{v: v}
}

// Read calls f with the current value under a read lock. f must not
// retain references into the value past its return.
func (s *Shared[T]) Read(f func(v T)) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f(s.v)
}

// Value returns a copy of the current value.
func (s *Shared[T]) Value() T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.v
}

// Update replaces the value with f's result under the write lock. All
// changes made by one Update become visible together.
func (s *Shared[T]) Update(f func(v T) T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v = f(s.v)
}

// Snapshot renders the whole value as JSON within a single consistent
// read. Writers are blocked for no longer than the encoding takes.
func (s *Shared[T]) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := gojson.Marshal(s.v)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return b, nil
}
