package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driven"
	"github.com/custodia-labs/radar/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService reads and persists the item history and the digest.
type HistoryService struct {
	store   driven.HistoryStore
	digests driven.DigestStore
}

// NewHistoryService creates a history service. digests may be nil.
func NewHistoryService(store driven.HistoryStore, digests driven.DigestStore) *HistoryService {
	return &HistoryService{store: store, digests: digests}
}

// Load returns the persisted history. The history is never nil, even
// alongside an error. domain.ErrStoreCorrupt means the content was malformed
// and an empty history is safe to continue with; any other failure is
// reported as domain.ErrStoreUnreadable and must not be persisted over.
func (s *HistoryService) Load(ctx context.Context) (*domain.History, error) {
	history, err := s.store.Load(ctx)
	if history == nil {
		history = domain.NewHistory(nil)
	}
	if err != nil {
		if errors.Is(err, domain.ErrStoreCorrupt) || errors.Is(err, domain.ErrStoreUnreadable) {
			return history, err
		}
		return history, fmt.Errorf("%w: %w", domain.ErrStoreUnreadable, err)
	}
	return history, nil
}

// Persist truncates history to capacity and writes the full snapshot.
func (s *HistoryService) Persist(ctx context.Context, history *domain.History, capacity int) error {
	if history == nil {
		return fmt.Errorf("%w: %w: nil history", domain.ErrPersist, domain.ErrInvalidInput)
	}
	history.Truncate(capacity)
	if err := s.store.Save(ctx, history.Items()); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersist, err)
	}
	return nil
}

// List returns stored items matching query, newest first.
func (s *HistoryService) List(ctx context.Context, query driving.HistoryQuery) ([]domain.StoredItem, error) {
	history, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	items := make([]domain.StoredItem, 0, history.Len())
	for _, item := range history.Items() {
		if query.Source != "" && item.Source != query.Source {
			continue
		}
		items = append(items, item)
		if query.Limit > 0 && len(items) == query.Limit {
			break
		}
	}
	return items, nil
}

// LatestDigest returns the last digest written.
func (s *HistoryService) LatestDigest(ctx context.Context) (*domain.Digest, error) {
	if s.digests == nil {
		return nil, domain.ErrNotFound
	}
	return s.digests.Load(ctx)
}
