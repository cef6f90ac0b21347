// Package store persists the operational run log: one record per pipeline
// invocation. Two backends are provided, an embedded sqlite default and
// postgres for shared deployments.
package store

import (
	"context"

	"github.com/sells-group/prospect-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus
	Limit  int
	Offset int
}

// Store defines the run-log persistence interface.
type Store interface {
	CreateRun(ctx context.Context, req model.SearchRequest) (*model.Run, error)
	FinishRun(ctx context.Context, runID string, outcome model.RunOutcome) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
