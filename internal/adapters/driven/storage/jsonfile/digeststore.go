package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driven"
)

// Ensure DigestStore implements the interface.
var _ driven.DigestStore = (*DigestStore)(nil)

// digestRecord is the on-disk form of a digest.
type digestRecord struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

// DigestStore keeps the latest digest as a single JSON object.
type DigestStore struct {
	path string
}

// NewDigestStore creates a store for the digest at path.
func NewDigestStore(path string) *DigestStore {
	return &DigestStore{path: path}
}

// Path returns the digest file path.
func (s *DigestStore) Path() string {
	return s.path
}

// Save overwrites the digest.
func (s *DigestStore) Save(_ context.Context, digest domain.Digest) error {
	data, err := encode(digestRecord{Date: digest.Date, Content: digest.Content})
	if err != nil {
		return fmt.Errorf("encode digest: %w", err)
	}
	return writeAtomic(s.path, data)
}

// Load reads the digest.
func (s *DigestStore) Load(_ context.Context) (*domain.Digest, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read digest: %w", err)
	}

	var r digestRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode digest: %w", err)
	}
	return &domain.Digest{Date: r.Date, Content: r.Content}, nil
}
