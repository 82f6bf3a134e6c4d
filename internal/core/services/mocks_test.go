package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driven"
)

// --- Shared mock implementations ---

// mockLLM implements driven.LLMService with a scripted reply.
type mockLLM struct {
	mu    sync.Mutex
	reply func(messages []driven.ChatMessage) (string, error)
	block bool
	calls [][]driven.ChatMessage
	opts  []driven.ChatOptions
}

// replyWith returns a mock that answers every call with the given text.
func replyWith(text string) *mockLLM {
	return &mockLLM{reply: func([]driven.ChatMessage) (string, error) { return text, nil }}
}

// failWith returns a mock that fails every call with err.
func failWith(err error) *mockLLM {
	return &mockLLM{reply: func([]driven.ChatMessage) (string, error) { return "", err }}
}

func (m *mockLLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, messages)
	m.opts = append(m.opts, opts)
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.reply(messages)
}

func (m *mockLLM) ModelName() string { return "mock" }
func (m *mockLLM) Close() error      { return nil }

func (m *mockLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockLLM) lastCall() []driven.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

// mockPromptStore implements driven.PromptStore from a map.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", errors.New("prompt not found")
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockAdapter implements driven.SourceAdapter with canned results per tag.
type mockAdapter struct {
	kind    domain.SourceKind
	items   map[string][]domain.CandidateItem
	errs    map[string]error
	fetched []domain.SourceDescriptor
}

func newMockAdapter(kind domain.SourceKind) *mockAdapter {
	return &mockAdapter{
		kind:  kind,
		items: make(map[string][]domain.CandidateItem),
		errs:  make(map[string]error),
	}
}

func (m *mockAdapter) Kind() domain.SourceKind { return m.kind }

func (m *mockAdapter) Fetch(_ context.Context, src domain.SourceDescriptor) ([]domain.CandidateItem, error) {
	m.fetched = append(m.fetched, src)
	if err := m.errs[src.Tag]; err != nil {
		return nil, domain.NewSourceError(src.Tag, err)
	}
	return m.items[src.Tag], nil
}

// mockRegistry implements driven.SourceRegistry.
type mockRegistry struct {
	adapters map[domain.SourceKind]driven.SourceAdapter
}

func newMockRegistry(adapters ...driven.SourceAdapter) *mockRegistry {
	r := &mockRegistry{adapters: make(map[domain.SourceKind]driven.SourceAdapter)}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

func (r *mockRegistry) Adapter(kind domain.SourceKind) (driven.SourceAdapter, error) {
	a, ok := r.adapters[kind]
	if !ok {
		return nil, domain.ErrUnsupportedType
	}
	return a, nil
}

func (r *mockRegistry) Register(a driven.SourceAdapter) { r.adapters[a.Kind()] = a }

func (r *mockRegistry) Kinds() []domain.SourceKind {
	kinds := make([]domain.SourceKind, 0, len(r.adapters))
	for k := range r.adapters {
		kinds = append(kinds, k)
	}
	return kinds
}

// fixedClock returns a clock frozen at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// candidate builds a candidate published on the given day of October 2025.
func candidate(title, source string, day int) domain.CandidateItem {
	return domain.CandidateItem{
		Title:     title,
		Link:      "https://example.com/" + title,
		Published: time.Date(2025, 10, day, 8, 0, 0, 0, time.UTC),
		Source:    source,
		Language:  domain.LanguageForTag(source),
	}
}

// stored builds a stored item.
func stored(title, source string) domain.StoredItem {
	return domain.StoredItem{
		Title:    title,
		Link:     "https://example.com/" + title,
		Date:     "2025-10-01",
		Source:   source,
		Language: domain.LanguageForTag(source),
		Summary:  "summary of " + title,
	}
}
