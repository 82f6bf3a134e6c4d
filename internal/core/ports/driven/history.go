package driven

import (
	"context"

	"github.com/custodia-labs/radar/internal/core/domain"
)

// HistoryStore persists the item history snapshot.
type HistoryStore interface {
	// Load reads the snapshot into a history, newest first.
	// A missing snapshot returns an empty history and no error.
	// An unreadable snapshot returns an empty history and domain.ErrStoreCorrupt.
	Load(ctx context.Context) (*domain.History, error)

	// Save replaces the snapshot with items.
	// A reader never observes a partially written snapshot.
	Save(ctx context.Context, items []domain.StoredItem) error
}

// DigestStore persists the daily digest.
type DigestStore interface {
	// Save replaces the digest.
	Save(ctx context.Context, digest domain.Digest) error

	// Load returns the last digest written.
	// Returns domain.ErrNotFound if none exists.
	Load(ctx context.Context) (*domain.Digest, error)
}
