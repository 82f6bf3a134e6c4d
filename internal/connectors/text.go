package connectors

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/microcosm-cc/bluemonday"

	"github.com/custodia-labs/radar/internal/core/domain"
)

// stripPolicy removes every tag and keeps text content.
var stripPolicy = bluemonday.StrictPolicy()

// CleanText strips markup from s, decodes entities and collapses
// whitespace to single spaces.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	stripped := html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(stripped), " ")
}

// ParseDate parses a publish timestamp written in any common layout.
// Empty or unrecognisable input returns an error wrapping domain.ErrDateParse.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", domain.ErrDateParse)
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", domain.ErrDateParse, raw, err)
	}
	return t, nil
}

// PublishedAt picks the first parsed timestamp, then the first raw string
// that ParseDate understands. It returns false when none is usable and the
// caller should fall back to the run date.
func PublishedAt(parsed []*time.Time, raw ...string) (time.Time, bool) {
	for _, t := range parsed {
		if t != nil && !t.IsZero() {
			return *t, true
		}
	}
	for _, r := range raw {
		if t, err := ParseDate(r); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
