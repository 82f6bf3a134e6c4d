package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/radar/internal/core/domain"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>search</title>
<item><title>宇树科技发布新款人形机器人 - 新华网</title><link>https://news.example.com/a</link><pubDate>Mon, 13 Oct 2025 08:00:00 GMT</pubDate></item>
<item><title>Waymo expands &amp;amp; grows</title><link>https://news.example.com/b</link></item>
<item><title>   </title><link>https://news.example.com/blank</link></item>
<item><title>Third story</title><link>https://news.example.com/c</link><pubDate>Sun, 12 Oct 2025 08:00:00 GMT</pubDate></item>
<item><title>Fourth story</title><link>https://news.example.com/d</link><pubDate>Sun, 12 Oct 2025 07:00:00 GMT</pubDate></item>
</channel></rss>`

var runDate = time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC)

func newAdapter(t *testing.T, handler http.HandlerFunc) (*Adapter, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{
		SearchURL:  server.URL + "/rss/search",
		HTTPClient: server.Client(),
		Timeout:    time.Second,
		Now:        func() time.Time { return runDate },
	}), server
}

func TestAdapter_Kind(t *testing.T) {
	assert.Equal(t, domain.SourceKindFeed, New(Config{}).Kind())
}

func TestFetch_MapsEntries(t *testing.T) {
	var query url.Values
	a, _ := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(sampleRSS))
	})

	items, err := a.Fetch(context.Background(), domain.SourceDescriptor{
		Tag: "CN·行业", Kind: domain.SourceKindFeed, Query: "具身智能 when:1d",
	})
	require.NoError(t, err)

	assert.Equal(t, "具身智能 when:1d", query.Get("q"))
	assert.Equal(t, "zh-CN", query.Get("hl"))
	assert.Equal(t, "CN:zh-CN", query.Get("ceid"))

	require.Len(t, items, 4)
	assert.Equal(t, "宇树科技发布新款人形机器人 - 新华网", items[0].Title)
	assert.Equal(t, "2025-10-13", items[0].Date())
	assert.Equal(t, "CN·行业", items[0].Source)
	assert.Equal(t, domain.LanguageCN, items[0].Language)

	// No timestamp falls back to the run date.
	assert.Equal(t, "2025-10-14", items[1].Date())
	assert.True(t, items[1].Undated)
	assert.False(t, items[0].Undated)
	assert.Equal(t, "https://news.example.com/c", items[2].Link)
}

func TestFetch_AppliesLimit(t *testing.T) {
	a, _ := newAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleRSS))
	})

	items, err := a.Fetch(context.Background(), domain.SourceDescriptor{
		Tag: "EN·Tech", Kind: domain.SourceKindFeed, Query: "robots", Limit: 3,
	})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, domain.LanguageEN, items[0].Language)
	assert.Equal(t, "Third story", items[2].Title)
}

func TestFetch_ExplicitURLUsedVerbatim(t *testing.T) {
	var path string
	a, server := newAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.RequestURI()
		_, _ = w.Write([]byte(sampleRSS))
	})

	_, err := a.Fetch(context.Background(), domain.SourceDescriptor{
		Tag: "Custom", Kind: domain.SourceKindFeed, URL: server.URL + "/custom.xml?x=1",
	})
	require.NoError(t, err)
	assert.Equal(t, "/custom.xml?x=1", path)
}

func TestFetch_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{name: "bad status", handler: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{name: "unparseable body", handler: func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>not a feed"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newAdapter(t, tt.handler)
			items, err := a.Fetch(context.Background(), domain.SourceDescriptor{Tag: "X", Kind: domain.SourceKindFeed, Query: "q"})

			assert.Nil(t, items)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrSourceFetch))
			var srcErr *domain.SourceError
			require.True(t, errors.As(err, &srcErr))
			assert.Equal(t, "X", srcErr.Tag)
		})
	}
}

func TestURL_EnglishLocale(t *testing.T) {
	a := New(Config{})
	got, err := a.URL(domain.SourceDescriptor{Tag: "EN·Auto", Query: `"Waymo" when:1d`})
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "news.google.com", u.Host)
	assert.Equal(t, "en-US", u.Query().Get("hl"))
	assert.Equal(t, "US", u.Query().Get("gl"))
	assert.Equal(t, "US:en", u.Query().Get("ceid"))
}

func TestURL_RequiresQuery(t *testing.T) {
	_, err := New(Config{}).URL(domain.SourceDescriptor{Tag: "X"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
