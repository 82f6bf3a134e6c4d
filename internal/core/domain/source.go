package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// SourceKind identifies which adapter fetches a source.
type SourceKind string

// Available source kinds.
const (
	// SourceKindFeed is a search-style news feed queried by keyword.
	SourceKindFeed SourceKind = "feed"

	// SourceKindCatalog is an academic catalog queried by subject and keyword.
	SourceKindCatalog SourceKind = "catalog"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	return k == SourceKindFeed || k == SourceKindCatalog
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// DefaultFreshnessDays is the catalog freshness window when none is configured.
const DefaultFreshnessDays = 3

// SourceDescriptor describes one configured source.
type SourceDescriptor struct {
	// Tag labels the origin/category of every item from this source.
	Tag string

	// Kind selects the adapter.
	Kind SourceKind

	// Query is the keyword query sent upstream.
	Query string

	// Language is the source language. Derived from Tag when empty.
	Language Language

	// URL overrides the endpoint built from Query when set.
	URL string

	// Limit caps the items returned per run. Zero means unbounded.
	Limit int

	// Category is the catalog subject (e.g. "cs.RO"). Catalog only.
	Category string

	// FreshnessDays discards catalog results older than this many days.
	// Zero uses the configured default.
	FreshnessDays int
}

// EffectiveLanguage returns the configured language or the one derived from Tag.
func (d SourceDescriptor) EffectiveLanguage() Language {
	if d.Language.IsValid() {
		return d.Language
	}
	return LanguageForTag(d.Tag)
}

// Validate checks that the descriptor can be fetched.
func (d SourceDescriptor) Validate() error {
	if strings.TrimSpace(d.Tag) == "" {
		return fmt.Errorf("%w: source tag is required", ErrInvalidInput)
	}
	if !d.Kind.IsValid() {
		return fmt.Errorf("%w: source %q: unknown kind %q (valid: feed, catalog)", ErrInvalidInput, d.Tag, d.Kind)
	}
	if d.Language != "" && !d.Language.IsValid() {
		return fmt.Errorf("%w: source %q: unknown language %q (valid: CN, EN)", ErrInvalidInput, d.Tag, d.Language)
	}
	if d.Query == "" && d.URL == "" && d.Category == "" {
		return fmt.Errorf("%w: source %q: query or url is required", ErrInvalidInput, d.Tag)
	}
	if d.URL != "" {
		u, err := url.Parse(d.URL)
		if err != nil {
			return fmt.Errorf("%w: source %q: invalid url: %w", ErrInvalidInput, d.Tag, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%w: source %q: url scheme must be http or https, got %q", ErrInvalidInput, d.Tag, u.Scheme)
		}
	}
	if d.Limit < 0 {
		return fmt.Errorf("%w: source %q: limit must not be negative", ErrInvalidInput, d.Tag)
	}
	return nil
}

// DefaultSources returns the sources used when none are configured.
func DefaultSources() []SourceDescriptor {
	return []SourceDescriptor{
		{Tag: "CN·行业", Kind: SourceKindFeed, Query: "具身智能 OR 人形机器人 OR 端到端自动驾驶 OR Robotaxi OR 世界模型 when:1d", Limit: 3},
		{Tag: "CN·公司", Kind: SourceKindFeed, Query: "宇树科技 OR 智元机器人 OR 华为ADS OR 小鹏NGP OR 特斯拉FSD OR FigureAI when:1d", Limit: 3},
		{Tag: "EN·Tech", Kind: SourceKindFeed, Query: `"Embodied AI" OR "Humanoid Robot" OR "Foundation Model for Robotics" OR "Sim-to-Real" when:1d`, Limit: 3},
		{Tag: "EN·Auto", Kind: SourceKindFeed, Query: `"End-to-end Autonomous Driving" OR "Waymo" OR "Tesla Optimus" OR "NVIDIA Isaac" when:1d`, Limit: 3},
		{Tag: DefaultPaperTag, Kind: SourceKindCatalog, Category: "cs.RO", Query: `"embodied ai" OR "autonomous driving"`, Limit: 10},
	}
}

// DefaultBackfillSources returns the archive queries used by `radar backfill`
// when none are configured. They carry no recency operator.
func DefaultBackfillSources() []SourceDescriptor {
	return []SourceDescriptor{
		{Tag: "CN·具身智能", Kind: SourceKindFeed, Query: "具身智能 2024"},
		{Tag: "EN·Embodied AI", Kind: SourceKindFeed, Query: "Tesla Optimus progress"},
		{Tag: "CN·自动驾驶", Kind: SourceKindFeed, Query: "端到端自动驾驶 进展"},
		{Tag: "EN·AutoDriving", Kind: SourceKindFeed, Query: "Waymo vs Tesla FSD"},
		{Tag: DefaultPaperTag, Kind: SourceKindFeed, Query: "site:arxiv.org Embodied AI"},
	}
}
