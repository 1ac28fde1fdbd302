// Package store persists research run history so the dashboard and CLI can
// list past reports. The pipeline itself never reads from the store; it only
// records what happened.
package store

import (
	"context"

	"github.com/redscout/redscout-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for run history.
type Store interface {
	// CreateRun records a new run in the running state.
	CreateRun(ctx context.Context, query string) (*model.Run, error)
	// CompleteRun attaches the finished report and marks the run complete.
	CompleteRun(ctx context.Context, runID string, report *model.Report) error
	// FailRun records the failure reason and marks the run failed.
	FailRun(ctx context.Context, runID string, cause string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
