package driving

import (
	"context"

	"github.com/custodia-labs/radar/internal/core/domain"
)

// Pipeline runs the ingestion pipeline.
type Pipeline interface {
	// Run executes one full pass: fetch, dedup, gate, merge, persist, digest.
	// The report is returned even when the run fails. A run fails on invalid
	// settings, an unreadable history, cancellation before persist or
	// domain.ErrPersist.
	Run(ctx context.Context) (*domain.RunReport, error)

	// Backfill fetches the archive sources once and merges novel items into
	// the history by date. It writes no digest and fails like Run.
	Backfill(ctx context.Context) (*domain.RunReport, error)

	// Runs returns recent run reports, most recent first.
	// Returns an empty slice when no run ledger is configured.
	Runs(ctx context.Context, limit int) ([]domain.RunReport, error)
}
