package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceKind_IsValid(t *testing.T) {
	assert.True(t, SourceKindFeed.IsValid())
	assert.True(t, SourceKindCatalog.IsValid())
	assert.False(t, SourceKind("rss").IsValid())
	assert.Equal(t, "feed", SourceKindFeed.String())
}

func TestSourceDescriptor_EffectiveLanguage(t *testing.T) {
	assert.Equal(t, LanguageCN, SourceDescriptor{Tag: "Google News·CN"}.EffectiveLanguage())
	assert.Equal(t, LanguageEN, SourceDescriptor{Tag: "Google News·EN"}.EffectiveLanguage())
	assert.Equal(t, LanguageCN, SourceDescriptor{Tag: "Custom", Language: LanguageCN}.EffectiveLanguage())
}

func TestSourceDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name    string
		src     SourceDescriptor
		wantErr bool
	}{
		{
			name: "valid feed",
			src:  SourceDescriptor{Tag: "Google News·EN", Kind: SourceKindFeed, Query: "humanoid robot"},
		},
		{
			name: "valid feed with url",
			src:  SourceDescriptor{Tag: "Custom", Kind: SourceKindFeed, URL: "https://example.com/rss"},
		},
		{
			name: "valid catalog",
			src:  SourceDescriptor{Tag: "Paper·论文", Kind: SourceKindCatalog, Category: "cs.RO", Query: "humanoid"},
		},
		{
			name:    "missing tag",
			src:     SourceDescriptor{Kind: SourceKindFeed, Query: "q"},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			src:     SourceDescriptor{Tag: "T", Kind: "rss", Query: "q"},
			wantErr: true,
		},
		{
			name:    "unknown language",
			src:     SourceDescriptor{Tag: "T", Kind: SourceKindFeed, Query: "q", Language: "FR"},
			wantErr: true,
		},
		{
			name:    "nothing to query",
			src:     SourceDescriptor{Tag: "T", Kind: SourceKindFeed},
			wantErr: true,
		},
		{
			name:    "bad url scheme",
			src:     SourceDescriptor{Tag: "T", Kind: SourceKindFeed, URL: "ftp://example.com/rss"},
			wantErr: true,
		},
		{
			name:    "negative limit",
			src:     SourceDescriptor{Tag: "T", Kind: SourceKindFeed, Query: "q", Limit: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.src.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultSources_AreValid(t *testing.T) {
	sources := DefaultSources()
	assert.NotEmpty(t, sources)

	tags := make(map[string]bool)
	for _, src := range sources {
		assert.NoError(t, src.Validate(), src.Tag)
		assert.False(t, tags[src.Tag], "duplicate tag %s", src.Tag)
		tags[src.Tag] = true
	}
	assert.Equal(t, LanguageCN, sources[0].EffectiveLanguage())
}

func TestDefaultBackfillSources_AreValid(t *testing.T) {
	sources := DefaultBackfillSources()
	require.Len(t, sources, 5)

	for _, src := range sources {
		assert.NoError(t, src.Validate(), src.Tag)
		assert.NotContains(t, src.Query, "when:")
	}
	assert.Equal(t, LanguageEN, sources[1].EffectiveLanguage())
}
