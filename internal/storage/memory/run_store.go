// Package memory provides process-local implementations of the storage interfaces.
package memory

import (
	"context"
	"sort"
	"sync"

	"newsvendor-lab/internal/domain"
	"newsvendor-lab/internal/storage"
)

// RunStore is an in-memory implementation of storage.RunStore.
// Runs are deep-copied on the way in and out, so callers never share ledgers.
type RunStore struct {
	mu   sync.RWMutex
	data map[string]*domain.RunResult // keyed by run_id
}

var _ storage.RunStore = (*RunStore)(nil)

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		data: make(map[string]*domain.RunResult),
	}
}

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(_ context.Context, r *domain.RunResult) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[r.RunID] = r.Clone()
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(_ context.Context, runID string) (*domain.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return r.Clone(), nil
}

// List retrieves runs of kind (all when empty), ordered by created_at ASC, run_id ASC.
func (s *RunStore) List(_ context.Context, kind string) ([]*domain.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.RunResult, 0, len(s.data))
	for _, r := range s.data {
		if kind != "" && r.Kind != kind {
			continue
		}
		result = append(result, r.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].RunID < result[j].RunID
	})

	return result, nil
}
