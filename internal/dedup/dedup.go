// Package dedup tracks voter identifiers already committed to a destination
// scope, so repeated or incremental import runs stay duplicate free.
package dedup

import "sync"

// Status is the outcome of checking a voter id against a scope.
type Status int

const (
	Accepted Status = iota
	Duplicate
)

// Index is a scope-keyed set of committed voter ids. Scopes are independent:
// the same voter id in two different scopes is accepted in both. The index
// lives for one import run; durable uniqueness is the storage layer's
// unique constraint.
type Index struct {
	mu     sync.Mutex
	scopes map[string]map[string]struct{}
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{scopes: make(map[string]map[string]struct{})}
}

// Seed loads the ids already present in the destination, so re-imports of
// previously committed rows surface as duplicates.
func (ix *Index) Seed(scope string, existing map[string]struct{}) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ids := ix.scopes[scope]
	if ids == nil {
		ids = make(map[string]struct{}, len(existing))
		ix.scopes[scope] = ids
	}
	for id := range existing {
		ids[id] = struct{}{}
	}
}

// CheckAndRecord accepts the first occurrence of a voter id within a scope
// and reports every later occurrence as a duplicate, whether it came from
// the current batch or was seeded from storage.
func (ix *Index) CheckAndRecord(scope, voterID string) Status {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ids := ix.scopes[scope]
	if ids == nil {
		ids = make(map[string]struct{})
		ix.scopes[scope] = ids
	}
	if _, seen := ids[voterID]; seen {
		return Duplicate
	}
	ids[voterID] = struct{}{}
	return Accepted
}

// Len returns the number of ids recorded for a scope.
func (ix *Index) Len(scope string) int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return len(ix.scopes[scope])
}
