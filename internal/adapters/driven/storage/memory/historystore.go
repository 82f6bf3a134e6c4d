package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore.
// It backs dry runs and tests.
type HistoryStore struct {
	mu    sync.RWMutex
	items []domain.StoredItem
	saves int

	// LoadErr and SaveErr, when set, are returned by Load and Save.
	LoadErr error
	SaveErr error
}

// NewHistoryStore creates a history store seeded with items, newest first.
func NewHistoryStore(items []domain.StoredItem) *HistoryStore {
	return &HistoryStore{items: cloneItems(items)}
}

// Load returns a history built from the held snapshot.
func (s *HistoryStore) Load(_ context.Context) (*domain.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LoadErr != nil {
		return domain.NewHistory(nil), s.LoadErr
	}
	return domain.NewHistory(s.items), nil
}

// Save replaces the held snapshot.
func (s *HistoryStore) Save(_ context.Context, items []domain.StoredItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.items = cloneItems(items)
	s.saves++
	return nil
}

// Items returns a copy of the held snapshot.
func (s *HistoryStore) Items() []domain.StoredItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

// Saves returns how many times Save succeeded.
func (s *HistoryStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func cloneItems(items []domain.StoredItem) []domain.StoredItem {
	out := make([]domain.StoredItem, len(items))
	copy(out, items)
	return out
}
