package driven

import (
	"context"

	"github.com/custodia-labs/radar/internal/core/domain"
)

// RunLogStore records the outcome of each run for later inspection.
type RunLogStore interface {
	// Record persists a run report.
	Record(ctx context.Context, report *domain.RunReport) error

	// List returns recent reports, most recent first.
	List(ctx context.Context, limit int) ([]domain.RunReport, error)

	// Prune keeps the most recent 'keep' reports and removes the rest.
	Prune(ctx context.Context, keep int) error
}
