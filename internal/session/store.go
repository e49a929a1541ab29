package session

import (
	"context"
	"errors"

	"errorless/internal/diag"
)

// RebuildFunc runs the build and classifies its output into a fresh set.
type RebuildFunc func(ctx context.Context) ([]diag.Record, error)

// Store holds the current record set and the function that replaces it.
// Only Rebuild mutates it, and only by swapping the whole set.
type Store struct {
	records    []diag.Record
	rebuild    RebuildFunc
	generation int
}

// NewStore creates an empty store. It does not rebuild.
func NewStore(fn RebuildFunc) *Store {
	return &Store{rebuild: fn}
}

// Records returns the current set. Callers must not modify it.
func (s *Store) Records() []diag.Record {
	return s.records
}

// Get looks a record up by its 1-based id.
func (s *Store) Get(n int) (diag.Record, bool) {
	return diag.Set(s.records).Get(n)
}

// Generation counts successful rebuilds.
func (s *Store) Generation() int {
	return s.generation
}

// Rebuild runs the rebuild function. On success the previous set is
// discarded and replaced; on failure it is left as it was.
func (s *Store) Rebuild(ctx context.Context) error {
	if s.rebuild == nil {
		return errors.New("no rebuild function configured")
	}
	records, err := s.rebuild(ctx)
	if err != nil {
		return err
	}
	s.records = records
	s.generation++
	return nil
}
