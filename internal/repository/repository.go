package repository

import (
	"context"
	"errors"

	"switchgraph/internal/domain"
)

// ErrNotFound is returned when a run does not exist
var ErrNotFound = errors.New("not found")

// HistoryRepository stores the outcome of every run
type HistoryRepository interface {
	// SaveRun stores a run with its device reports and links
	SaveRun(ctx context.Context, run *domain.Run) error
	// GetRun loads one run with full detail
	GetRun(ctx context.Context, id string) (*domain.Run, error)
	// ListRuns returns the most recent runs first
	ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)
	// LatestRun returns the most recent run, or ErrNotFound
	LatestRun(ctx context.Context) (*domain.Run, error)

	Close() error
}
