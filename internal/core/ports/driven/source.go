package driven

import (
	"context"

	"github.com/custodia-labs/radar/internal/core/domain"
)

// SourceAdapter fetches candidate items from one kind of upstream source.
// Each source kind (feed, catalog) implements this interface.
type SourceAdapter interface {
	// Kind returns the source kind this adapter serves.
	Kind() domain.SourceKind

	// Fetch returns the candidates currently offered by src, in upstream order.
	// Any failure is returned as a *domain.SourceError; the caller treats the
	// source as having yielded nothing.
	Fetch(ctx context.Context, src domain.SourceDescriptor) ([]domain.CandidateItem, error)
}

// SourceRegistry resolves the adapter for a source kind.
type SourceRegistry interface {
	// Adapter returns the adapter registered for kind.
	// Returns domain.ErrUnsupportedType if none is registered.
	Adapter(kind domain.SourceKind) (SourceAdapter, error)

	// Register adds an adapter, replacing any previous one of the same kind.
	Register(adapter SourceAdapter)

	// Kinds returns all registered kinds.
	Kinds() []domain.SourceKind
}
