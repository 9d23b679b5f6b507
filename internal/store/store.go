// Package store persists the lead book. The lead list is written wholesale:
// the in-memory collection is the source of truth and each Save replaces the
// stored list with the current one, order preserved.
package store

import (
	"context"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Store defines the persistence interface for leads and run history.
type Store interface {
	// Load returns the stored lead list in insertion order. A missing or
	// empty backing document yields an empty list, not an error.
	Load(ctx context.Context) ([]model.Lead, error)

	// Save replaces the stored lead list with the given one.
	Save(ctx context.Context, leads []model.Lead) error

	// RecordRun appends a pipeline run record. Best-effort history; callers
	// log failures rather than abort.
	RecordRun(ctx context.Context, run model.PipelineRun) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]model.PipelineRun, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
