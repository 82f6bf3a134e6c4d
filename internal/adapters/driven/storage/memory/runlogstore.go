package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driven"
)

// Ensure RunLogStore implements the interface.
var _ driven.RunLogStore = (*RunLogStore)(nil)

// RunLogStore is an in-memory implementation of driven.RunLogStore.
type RunLogStore struct {
	mu      sync.RWMutex
	reports map[string]domain.RunReport
}

// NewRunLogStore creates an empty run ledger.
func NewRunLogStore() *RunLogStore {
	return &RunLogStore{reports: make(map[string]domain.RunReport)}
}

// Record stores or replaces a report.
func (s *RunLogStore) Record(_ context.Context, report *domain.RunReport) error {
	if report == nil || report.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *report
	r.FailedSources = append([]string(nil), report.FailedSources...)
	s.reports[r.ID] = r
	return nil
}

// List returns reports, most recent first.
func (s *RunLogStore) List(_ context.Context, limit int) ([]domain.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.sorted()
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Prune keeps the most recent 'keep' reports.
func (s *RunLogStore) Prune(_ context.Context, keep int) error {
	if keep < 0 {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sorted := s.sorted()
	for i := keep; i < len(sorted); i++ {
		delete(s.reports, sorted[i].ID)
	}
	return nil
}

// sorted returns reports by start time descending (caller must hold lock).
func (s *RunLogStore) sorted() []domain.RunReport {
	out := make([]domain.RunReport, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out
}
