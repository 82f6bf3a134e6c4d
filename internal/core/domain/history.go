package domain

import (
	"fmt"
	"sort"
)

// DefaultHistoryCapacity bounds the persisted history when nothing is configured.
const DefaultHistoryCapacity = 500

// History is the ordered, newest-first collection of stored items.
// No two items share a title.
type History struct {
	items []StoredItem
	seen  map[string]struct{}
}

// NewHistory builds a history from a persisted snapshot, newest first.
// Later duplicates of a title already seen are dropped.
func NewHistory(items []StoredItem) *History {
	h := &History{
		items: make([]StoredItem, 0, len(items)),
		seen:  make(map[string]struct{}, len(items)),
	}
	for _, item := range items {
		if _, dup := h.seen[item.Key()]; dup {
			continue
		}
		h.seen[item.Key()] = struct{}{}
		h.items = append(h.items, item)
	}
	return h
}

// Len returns the number of items held.
func (h *History) Len() int {
	return len(h.items)
}

// Seen reports whether an item with this title is held.
func (h *History) Seen(title string) bool {
	_, ok := h.seen[title]
	return ok
}

// SeenTitles returns a copy of the set of titles currently held.
func (h *History) SeenTitles() map[string]struct{} {
	out := make(map[string]struct{}, len(h.seen))
	for title := range h.seen {
		out[title] = struct{}{}
	}
	return out
}

// Admit prepends item and registers its title as seen.
func (h *History) Admit(item StoredItem) error {
	if item.Title == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidInput)
	}
	if h.Seen(item.Key()) {
		return fmt.Errorf("%w: %q", ErrAlreadyExists, item.Title)
	}
	h.items = append(h.items, StoredItem{})
	copy(h.items[1:], h.items)
	h.items[0] = item
	h.seen[item.Key()] = struct{}{}
	return nil
}

// Append adds item at the tail and registers its title as seen.
func (h *History) Append(item StoredItem) error {
	if item.Title == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidInput)
	}
	if h.Seen(item.Key()) {
		return fmt.Errorf("%w: %q", ErrAlreadyExists, item.Title)
	}
	h.items = append(h.items, item)
	h.seen[item.Key()] = struct{}{}
	return nil
}

// SortByDate orders items by Date, newest first. Items sharing a date keep
// their relative order.
func (h *History) SortByDate() {
	sort.SliceStable(h.items, func(i, j int) bool {
		return h.items[i].Date > h.items[j].Date
	})
}

// Truncate keeps the first capacity items and forgets the rest.
// It returns the number of evicted items. A capacity <= 0 keeps everything.
func (h *History) Truncate(capacity int) int {
	if capacity <= 0 || len(h.items) <= capacity {
		return 0
	}
	evicted := h.items[capacity:]
	for _, item := range evicted {
		delete(h.seen, item.Key())
	}
	n := len(evicted)
	h.items = h.items[:capacity:capacity]
	return n
}

// Items returns a copy of the held items, newest first.
func (h *History) Items() []StoredItem {
	out := make([]StoredItem, len(h.items))
	copy(out, h.items)
	return out
}

// Recent returns a copy of at most n items from the head.
func (h *History) Recent(n int) []StoredItem {
	if n <= 0 || n > len(h.items) {
		n = len(h.items)
	}
	out := make([]StoredItem, n)
	copy(out, h.items[:n])
	return out
}
