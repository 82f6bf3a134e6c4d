package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// record is the on-disk form of a stored item.
type record struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Date     string `json:"date"`
	Source   string `json:"source"`
	Language string `json:"language,omitempty"`

	// Lang is the legacy name of Language, accepted on load only.
	Lang string `json:"lang,omitempty"`

	Summary string `json:"summary"`
}

// HistoryStore keeps the history snapshot as a JSON array, newest first.
type HistoryStore struct {
	path string
}

// NewHistoryStore creates a store for the snapshot at path.
func NewHistoryStore(path string) *HistoryStore {
	return &HistoryStore{path: path}
}

// Path returns the snapshot file path.
func (s *HistoryStore) Path() string {
	return s.path
}

// Load reads the snapshot.
func (s *HistoryStore) Load(_ context.Context) (*domain.History, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewHistory(nil), nil
		}
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrStoreUnreadable, s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.NewHistory(nil), nil
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return domain.NewHistory(nil), fmt.Errorf("%w: decode %s: %w", domain.ErrStoreCorrupt, s.path, err)
	}

	items := make([]domain.StoredItem, 0, len(records))
	for _, r := range records {
		if r.Title == "" {
			continue
		}
		items = append(items, r.toItem())
	}
	return domain.NewHistory(items), nil
}

// Save replaces the snapshot with items.
func (s *HistoryStore) Save(_ context.Context, items []domain.StoredItem) error {
	records := make([]record, 0, len(items))
	for _, item := range items {
		records = append(records, fromItem(item))
	}

	data, err := encode(records)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return writeAtomic(s.path, data)
}

func (r record) toItem() domain.StoredItem {
	lang := domain.Language(r.Language)
	if lang == "" {
		lang = domain.Language(r.Lang)
	}
	if !lang.IsValid() {
		lang = domain.LanguageForTag(r.Source)
	}
	return domain.StoredItem{
		Title:    r.Title,
		Link:     r.Link,
		Date:     r.Date,
		Source:   r.Source,
		Language: lang,
		Summary:  r.Summary,
	}
}

func fromItem(item domain.StoredItem) record {
	return record{
		Title:    item.Title,
		Link:     item.Link,
		Date:     item.Date,
		Source:   item.Source,
		Language: item.Language.String(),
		Summary:  item.Summary,
	}
}
