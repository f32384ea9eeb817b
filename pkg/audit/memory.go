package audit

import (
	"context"
	"sync"
)

// MemoryStorage is a bounded in-memory audit store. When full, the oldest
// records are evicted.
type MemoryStorage struct {
	mu         sync.RWMutex
	records    []*Record
	maxRecords int
}

// NewMemoryStorage creates an in-memory store retaining at most maxRecords
// entries. A non-positive limit falls back to 1000.
func NewMemoryStorage(maxRecords int) *MemoryStorage {
	if maxRecords <= 0 {
		maxRecords = 1000
	}
	return &MemoryStorage{maxRecords: maxRecords}
}

// Append stores one record, evicting the oldest when at capacity.
func (s *MemoryStorage) Append(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
	if len(s.records) > s.maxRecords {
		overflow := len(s.records) - s.maxRecords
		s.records = append(s.records[:0:0], s.records[overflow:]...)
	}
	return nil
}

// List returns up to limit records, newest first.
func (s *MemoryStorage) List(ctx context.Context, limit int) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]*Record, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// Len returns the number of retained records.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close is a no-op for the memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}
