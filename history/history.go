// Package history provides append-only session history stores.
//
// Every fully processed query appends exactly one record; failed queries
// append nothing. Stores return records in insertion order and never mutate
// records after append.
package history

import (
	"context"
	"sync"

	"github.com/ragkit/ragkit-go/ragkit"
)

// Store is the session history contract.
type Store interface {
	// Append adds a record to the end of the history.
	Append(ctx context.Context, record ragkit.QueryRecord) error

	// List returns all records in insertion order.
	List(ctx context.Context) ([]ragkit.QueryRecord, error)

	// Clear removes all records.
	Clear(ctx context.Context) error
}

// InMemoryStore is a thread-safe in-process history store.
//
// Suitable for single-process deployments and tests. Use RedisStore when
// history must survive restarts or be shared across processes.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []ragkit.QueryRecord
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make([]ragkit.QueryRecord, 0),
	}
}

// Append adds a record to the end of the history.
func (s *InMemoryStore) Append(ctx context.Context, record ragkit.QueryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// List returns a snapshot copy of all records in insertion order.
func (s *InMemoryStore) List(ctx context.Context) ([]ragkit.QueryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]ragkit.QueryRecord, len(s.records))
	copy(snapshot, s.records)
	return snapshot, nil
}

// Clear removes all records.
func (s *InMemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = s.records[:0]
	return nil
}
