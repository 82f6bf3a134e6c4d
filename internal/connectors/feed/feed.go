// Package feed adapts search-style RSS listings (Google News by default)
// into candidate items.
package feed

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/custodia-labs/radar/internal/connectors"
	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// DefaultSearchURL is the Google News search RSS endpoint.
const DefaultSearchURL = "https://news.google.com/rss/search"

// locales maps a language to the Google News locale parameters.
var locales = map[domain.Language]url.Values{
	domain.LanguageCN: {"hl": {"zh-CN"}, "gl": {"CN"}, "ceid": {"CN:zh-CN"}},
	domain.LanguageEN: {"hl": {"en-US"}, "gl": {"US"}, "ceid": {"US:en"}},
}

// Config configures the feed adapter.
type Config struct {
	// SearchURL is the search endpoint used when a source has no explicit url.
	SearchURL string

	// Timeout bounds each fetch (default: connectors.DefaultTimeout).
	Timeout time.Duration

	// HTTPClient overrides the default client.
	HTTPClient *http.Client

	// Now supplies the run date for items without a usable timestamp.
	Now func() time.Time
}

// Adapter fetches RSS listings.
type Adapter struct {
	searchURL string
	timeout   time.Duration
	client    *http.Client
	parser    *gofeed.Parser
	now       func() time.Time
}

// New creates a feed adapter.
func New(cfg Config) *Adapter {
	if cfg.SearchURL == "" {
		cfg.SearchURL = DefaultSearchURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Adapter{
		searchURL: cfg.SearchURL,
		timeout:   cfg.Timeout,
		client:    cfg.HTTPClient,
		parser:    gofeed.NewParser(),
		now:       cfg.Now,
	}
}

// Kind returns domain.SourceKindFeed.
func (a *Adapter) Kind() domain.SourceKind {
	return domain.SourceKindFeed
}

// Fetch retrieves the listing for src and maps its entries in upstream order.
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
		return nil, domain.NewSourceError(src.Tag, fmt.Errorf("parse feed: %w", err))
	}

	lang := src.EffectiveLanguage()
	runDate := a.now()
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
			published = runDate
		}

		items = append(items, domain.CandidateItem{
			Title:     title,
			Link:      strings.TrimSpace(entry.Link),
			Published: published,
			Undated:   !ok,
			Source:    src.Tag,
			Language:  lang,
		})
	}
	return items, nil
}

// URL returns the listing address for src: its explicit url verbatim, or a
// search query against the configured endpoint in the source's locale.
func (a *Adapter) URL(src domain.SourceDescriptor) (string, error) {
	if src.URL != "" {
		return src.URL, nil
	}
	if strings.TrimSpace(src.Query) == "" {
		return "", fmt.Errorf("%w: feed source needs a query or url", domain.ErrInvalidInput)
	}

	base, err := url.Parse(a.searchURL)
	if err != nil {
		return "", fmt.Errorf("parse search url: %w", err)
	}
	params := url.Values{"q": {src.Query}}
	for k, v := range locales[src.EffectiveLanguage()] {
		params[k] = v
	}
	base.RawQuery = params.Encode()
	return base.String(), nil
}
