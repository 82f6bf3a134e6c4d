// Package catalog adapts the arXiv Atom query API into candidate items.
package catalog

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/custodia-labs/radar/internal/connectors"
	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// DefaultQueryURL is the arXiv export query endpoint.
const DefaultQueryURL = "https://export.arxiv.org/api/query"

// defaultMaxResults is requested when a source sets no limit.
const defaultMaxResults = 50

// Config configures the catalog adapter.
type Config struct {
	// QueryURL is the query endpoint (default: DefaultQueryURL).
	QueryURL string

	// Timeout bounds each fetch (default: connectors.DefaultTimeout).
	Timeout time.Duration

	// HTTPClient overrides the default client.
	HTTPClient *http.Client

	// Now anchors the freshness window and dates undated entries.
	Now func() time.Time
}

// Adapter queries a paper catalog.
type Adapter struct {
	queryURL string
	timeout  time.Duration
	client   *http.Client
	parser   *gofeed.Parser
	now      func() time.Time
}

// New creates a catalog adapter.
func New(cfg Config) *Adapter {
	if cfg.QueryURL == "" {
		cfg.QueryURL = DefaultQueryURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Adapter{
		queryURL: cfg.QueryURL,
		timeout:  cfg.Timeout,
		client:   cfg.HTTPClient,
		parser:   gofeed.NewParser(),
		now:      cfg.Now,
	}
}

// Kind returns domain.SourceKindCatalog.
func (a *Adapter) Kind() domain.SourceKind {
	return domain.SourceKindCatalog
}

// Fetch queries the catalog newest-first and keeps entries published within
// the source's freshness window.
func (a *Adapter) Fetch(ctx context.Context, src domain.SourceDescriptor) ([]domain.CandidateItem, error) {
	target, err := a.URL(src)
	if err != nil {
		return nil, domain.NewSourceError(src.Tag, err)
	}

	body, err := connectors.HTTPGet(ctx, a.client, target, a.timeout)
	if err != nil {
		return nil, domain.NewSourceError(src.Tag, err)
	}

	parsed, err := a.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewSourceError(src.Tag, fmt.Errorf("parse catalog: %w", err))
	}

	now := a.now()
	var cutoff time.Time
	if src.FreshnessDays > 0 {
		cutoff = now.AddDate(0, 0, -src.FreshnessDays)
	}

	lang := src.EffectiveLanguage()
	items := make([]domain.CandidateItem, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		if src.Limit > 0 && len(items) >= src.Limit {
			break
		}
		title := connectors.CleanText(entry.Title)
		if title == "" {
			continue
		}

		published, ok := connectors.PublishedAt(
			[]*time.Time{entry.PublishedParsed, entry.UpdatedParsed},
			entry.Published, entry.Updated,
		)
		if !ok {
			published = now
		}
		if !cutoff.IsZero() && published.Before(cutoff) {
			continue
		}

		items = append(items, domain.CandidateItem{
			Title:     title,
			Link:      entryLink(entry),
			Published: published,
			Undated:   !ok,
			Source:    src.Tag,
			Language:  lang,
			Abstract:  connectors.CleanText(entry.Description),
		})
	}
	return items, nil
}

// URL builds the query address for src. An explicit url is used verbatim.
func (a *Adapter) URL(src domain.SourceDescriptor) (string, error) {
	if src.URL != "" {
		return src.URL, nil
	}

	query := SearchQuery(src.Category, src.Query)
	if query == "" {
		return "", fmt.Errorf("%w: catalog source needs a category, query or url", domain.ErrInvalidInput)
	}

	maxResults := src.Limit
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	base, err := url.Parse(a.queryURL)
	if err != nil {
		return "", fmt.Errorf("parse query url: %w", err)
	}
	base.RawQuery = url.Values{
		"search_query": {query},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(maxResults)},
	}.Encode()
	return base.String(), nil
}

// SearchQuery combines a category and a free-text query:
// "cat:cs.RO AND (q)", "cat:cs.RO", or "q".
func SearchQuery(category, query string) string {
	category = strings.TrimSpace(category)
	query = strings.TrimSpace(query)
	switch {
	case category != "" && query != "":
		return "cat:" + category + " AND (" + query + ")"
	case category != "":
		return "cat:" + category
	default:
		return query
	}
}

// entryLink prefers the PDF link, then the abstract page.
func entryLink(entry *gofeed.Item) string {
	for _, l := range entry.Links {
		if strings.Contains(l, "/pdf/") {
			return l
		}
	}
	return strings.TrimSpace(entry.Link)
}
