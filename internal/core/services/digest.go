package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driven"
)

// Ensure DigestGenerator can use custom prompts.
var _ driven.PromptStoreAware = (*DigestGenerator)(nil)

// digestMaxTokens bounds the digest reply.
const digestMaxTokens = 1024

// DigestGenerator produces the daily digest with a single model call.
type DigestGenerator struct {
	llm      driven.LLMService
	prompts  driven.PromptStore
	store    driven.DigestStore
	settings domain.DigestSettings
	topic    string
	now      func() time.Time
}

// NewDigestGenerator creates a digest generator. llm may be nil, in which
// case Generate reports domain.ErrLLMUnavailable. store may be nil, in which
// case Publish only generates.
func NewDigestGenerator(
	llm driven.LLMService,
	store driven.DigestStore,
	settings domain.DigestSettings,
	topic string,
) *DigestGenerator {
	return &DigestGenerator{
		llm:      llm,
		store:    store,
		settings: settings,
		topic:    topic,
		now:      time.Now,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (g *DigestGenerator) SetPromptStore(store driven.PromptStore) {
	g.prompts = store
}

// SetClock replaces the clock the digest date is taken from.
func (g *DigestGenerator) SetClock(now func() time.Time) {
	g.now = now
}

// Generate writes a narrative over today's admitted items, in insertion
// order, or over the head of recent when today is empty.
// The date comes from the clock and is stated in the instruction.
func (g *DigestGenerator) Generate(ctx context.Context, today, recent []domain.StoredItem) (*domain.Digest, error) {
	items := today
	if len(items) == 0 {
		items = recent
		if g.settings.FallbackWindow > 0 && len(items) > g.settings.FallbackWindow {
			items = items[:g.settings.FallbackWindow]
		}
	}
	if len(items) == 0 {
		return nil, domain.ErrNothingToDigest
	}
	if g.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	date := g.now().Format(domain.DateLayout)
	system, err := renderPrompt(g.prompts, driven.PromptDigest, promptData{
		Topic:    g.topic,
		Date:     date,
		MaxChars: g.settings.MaxChars,
	})
	if err != nil {
		return nil, &domain.ModelCallError{Kind: domain.ModelCallMalformed, Err: err}
	}

	callCtx := ctx
	if g.settings.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.settings.Timeout)
		defer cancel()
	}

	reply, err := g.llm.Chat(callCtx, []driven.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: digestContent(date, items)},
	}, driven.ChatOptions{MaxTokens: digestMaxTokens, Temperature: 0.5})
	if err != nil {
		return nil, classifyModelError(err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, &domain.ModelCallError{Kind: domain.ModelCallMalformed, Err: errors.New("empty reply")}
	}

	return &domain.Digest{Date: date, Content: reply}, nil
}

// Publish generates a digest and overwrites the stored one.
// Nothing is written when generation fails.
func (g *DigestGenerator) Publish(ctx context.Context, today, recent []domain.StoredItem) (*domain.Digest, error) {
	digest, err := g.Generate(ctx, today, recent)
	if err != nil {
		return nil, err
	}
	if g.store == nil {
		return digest, nil
	}
	if err := g.store.Save(ctx, *digest); err != nil {
		return nil, fmt.Errorf("save digest: %w", err)
	}
	return digest, nil
}

// digestContent lists items for the model, one per line.
func digestContent(date string, items []domain.StoredItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n", date)
	for i, item := range items {
		fmt.Fprintf(&b, "%d. [%s] %s", i+1, item.Source, item.Title)
		if item.Summary != "" && item.Summary != domain.SummaryUnconfigured {
			fmt.Fprintf(&b, ": %s", item.Summary)
		}
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String())
}
