package storage

import (
	"context"

	"newsvendor-lab/internal/domain"
)

// RunStore keeps completed optimize and simulate results.
type RunStore interface {
	// Insert adds a completed run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.RunResult) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.RunResult, error)

	// List retrieves runs of the given kind (all kinds when empty),
	// ordered by created_at ASC, run_id ASC.
	List(ctx context.Context, kind string) ([]*domain.RunResult, error)
}
