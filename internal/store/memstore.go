package store

import (
	"sort"
	"sync"
)

// MemStore is an in-memory Store for tests and dry runs.
type MemStore struct {
	mu   sync.Mutex
	runs []Run
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// SaveRun appends one record, stamping CreatedAt when blank.
func (s *MemStore) SaveRun(run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run.CreatedAt == "" {
		run.CreatedAt = nowUTC()
	}
	s.runs = append(s.runs, run)
	return nil
}

// ListRuns returns stored runs, newest first.
func (s *MemStore) ListRuns(limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]Run(nil), s.runs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op.
func (s *MemStore) Close() error { return nil }
