package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driven"
)

// Ensure DigestStore implements the interface.
var _ driven.DigestStore = (*DigestStore)(nil)

// DigestStore is an in-memory implementation of driven.DigestStore.
type DigestStore struct {
	mu     sync.RWMutex
	digest *domain.Digest

	// SaveErr, when set, is returned by Save.
	SaveErr error
}

// NewDigestStore creates an empty digest store.
func NewDigestStore() *DigestStore {
	return &DigestStore{}
}

// Save replaces the held digest.
func (s *DigestStore) Save(_ context.Context, digest domain.Digest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.digest = &digest
	return nil
}

// Load returns the held digest.
func (s *DigestStore) Load(_ context.Context) (*domain.Digest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.digest == nil {
		return nil, domain.ErrNotFound
	}
	d := *s.digest
	return &d, nil
}
