package secrets

import (
	"context"
	"sync"

	"aperture/pkg/errors"
)

// MemoryStore implements Store in process memory. Useful for tests and
// single-binary deployments without Redis.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Put overwrites the record for a provider id
func (s *MemoryStore) Put(_ context.Context, providerID string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[providerID] = rec
	return nil
}

// Get retrieves the record for a provider id
func (s *MemoryStore) Get(_ context.Context, providerID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[providerID]
	if !ok {
		return Record{}, errors.Wrapf(errors.ErrNotFound, "no credential stored for provider=%s", providerID)
	}
	return rec, nil
}
