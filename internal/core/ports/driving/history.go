package driving

import (
	"context"

	"github.com/custodia-labs/radar/internal/core/domain"
)

// HistoryQuery filters stored items for display.
type HistoryQuery struct {
	// Limit caps the items returned. Zero returns everything.
	Limit int

	// Source keeps only items with this source tag. Empty keeps all.
	Source string
}

// HistoryService reads and persists the item history.
type HistoryService interface {
	// Load returns the persisted history.
	// A corrupt snapshot yields an empty history alongside domain.ErrStoreCorrupt.
	Load(ctx context.Context) (*domain.History, error)

	// Persist truncates history to capacity and writes it.
	// Failures wrap domain.ErrPersist.
	Persist(ctx context.Context, history *domain.History, capacity int) error

	// List returns stored items matching query, newest first.
	List(ctx context.Context, query HistoryQuery) ([]domain.StoredItem, error)

	// LatestDigest returns the last digest written.
	// Returns domain.ErrNotFound if none exists.
	LatestDigest(ctx context.Context) (*domain.Digest, error)
}
