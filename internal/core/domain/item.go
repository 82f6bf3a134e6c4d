package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used in persisted files.
const DateLayout = "2006-01-02"

// DefaultPaperTag is the source tag given to anything that is really a paper.
const DefaultPaperTag = "Paper·论文"

// Summary markers written in place of a model summary.
const (
	// SummaryUnconfigured is stored when no model credential is configured.
	SummaryUnconfigured = "未配置 API Key"

	// DefaultSummaryPlaceholder is stored when a model call fails under the
	// placeholder failure policy.
	DefaultSummaryPlaceholder = "AI 分析超时"
)

// Language identifies the language of a source and its items.
type Language string

// Supported languages.
const (
	LanguageCN Language = "CN"
	LanguageEN Language = "EN"
)

// IsValid returns true if the language is recognised.
func (l Language) IsValid() bool {
	return l == LanguageCN || l == LanguageEN
}

// String returns the string representation.
func (l Language) String() string {
	return string(l)
}

// LanguageForTag derives a language from a source tag.
func LanguageForTag(tag string) Language {
	if strings.Contains(tag, "CN") {
		return LanguageCN
	}
	return LanguageEN
}

// CandidateItem is a freshly fetched item awaiting judgement.
// It has no identity beyond its title within a run.
type CandidateItem struct {
	Title     string
	Link      string
	Published time.Time
	Source    string
	Language  Language

	// Abstract is the catalog abstract, empty for feed items.
	Abstract string

	// Undated is true when no timestamp could be parsed and Published
	// holds the run date instead.
	Undated bool
}

// Date returns the publish date in DateLayout.
func (c CandidateItem) Date() string {
	return c.Published.Format(DateLayout)
}

// IsPaper reports whether the candidate carries the given paper tag.
func (c CandidateItem) IsPaper(paperTag string) bool {
	return c.Source == paperTag
}

// Reclassify returns the candidate with its source tag set to paperTag
// when its title or link points at an academic paper.
func (c CandidateItem) Reclassify(paperTag string) CandidateItem {
	if LooksLikePaper(c.Title, c.Link) {
		c.Source = paperTag
	}
	return c
}

// LooksLikePaper reports whether a title or link textually indicates an
// academic paper.
func LooksLikePaper(title, link string) bool {
	return strings.Contains(strings.ToLower(title), "arxiv") ||
		strings.Contains(strings.ToLower(link), "arxiv")
}

// StoredItem is a candidate that passed the gate.
// Title is the sole deduplication key.
type StoredItem struct {
	Title    string
	Link     string
	Date     string
	Source   string
	Language Language
	Summary  string
}

// NewStoredItem builds a stored item from an accepted candidate.
func NewStoredItem(c CandidateItem, summary string) StoredItem {
	return StoredItem{
		Title:    c.Title,
		Link:     c.Link,
		Date:     c.Date(),
		Source:   c.Source,
		Language: c.Language,
		Summary:  summary,
	}
}

// Key returns the deduplication key.
func (s StoredItem) Key() string {
	return s.Title
}
