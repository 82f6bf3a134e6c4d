package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driven"
)

// Ensure Gate can use custom prompts.
var _ driven.PromptStoreAware = (*Gate)(nil)

// gateMaxTokens bounds a single summary reply.
const gateMaxTokens = 512

// Gate judges candidates with one model call each and produces their summary.
// It never logs; every outcome is returned as a domain.Verdict.
type Gate struct {
	llm      driven.LLMService
	prompts  driven.PromptStore
	settings domain.GateSettings
	paperTag string
	throttle *throttle
}

// NewGate creates a gate. llm may be nil, in which case every candidate is
// accepted with the unconfigured marker and no call is made.
func NewGate(llm driven.LLMService, settings domain.GateSettings, paperTag string) *Gate {
	if paperTag == "" {
		paperTag = domain.DefaultPaperTag
	}
	if settings.Placeholder == "" {
		settings.Placeholder = domain.DefaultSummaryPlaceholder
	}
	return &Gate{
		llm:      llm,
		settings: settings,
		paperTag: paperTag,
		throttle: newThrottle(settings.Delay),
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (g *Gate) SetPromptStore(store driven.PromptStore) {
	g.prompts = store
}

// Judge decides whether c is stored and with which summary.
// A cancelled ctx always yields a skip, whatever the failure policy.
func (g *Gate) Judge(ctx context.Context, c domain.CandidateItem) domain.Verdict {
	if err := ctx.Err(); err != nil {
		return domain.Skip(err)
	}
	if g.llm == nil {
		return domain.AcceptDegraded(domain.SummaryUnconfigured, domain.ErrLLMUnavailable)
	}

	messages, err := g.messages(c)
	if err != nil {
		return g.fail(&domain.ModelCallError{Kind: domain.ModelCallMalformed, Err: err})
	}

	if err := g.throttle.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Skip(ctxErr)
		}
		return g.fail(classifyModelError(err))
	}

	callCtx := ctx
	if g.settings.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.settings.Timeout)
		defer cancel()
	}

	reply, err := g.llm.Chat(callCtx, messages, driven.ChatOptions{MaxTokens: gateMaxTokens, Temperature: 0.3})
	g.throttle.Done()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Skip(ctxErr)
		}
		return g.fail(classifyModelError(err))
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return g.fail(&domain.ModelCallError{Kind: domain.ModelCallMalformed, Err: errors.New("empty reply")})
	}

	if g.isSentinel(reply) {
		if g.settings.Mode == domain.FilterModeAIGatekept {
			return domain.Reject()
		}
		// Rejection is not an option in always-summarise mode; the reply carries no summary.
		return g.fail(&domain.ModelCallError{Kind: domain.ModelCallMalformed, Err: errors.New("rejection sentinel without gatekeeping")})
	}

	return domain.Accept(reply)
}

// messages builds the system instruction and user content for c.
func (g *Gate) messages(c domain.CandidateItem) ([]driven.ChatMessage, error) {
	name := driven.PromptSummarise
	if c.IsPaper(g.paperTag) || domain.LooksLikePaper(c.Title, c.Link) {
		name = driven.PromptSummarisePaper
	}

	system, err := renderPrompt(g.prompts, name, promptData{
		Topic:       g.settings.Topic,
		Sentinel:    g.settings.RejectSentinel,
		Gatekept:    g.settings.Mode == domain.FilterModeAIGatekept,
		HasAbstract: c.Abstract != "",
	})
	if err != nil {
		return nil, err
	}

	var user strings.Builder
	fmt.Fprintf(&user, "Title: %s\n", c.Title)
	if c.Language != "" {
		fmt.Fprintf(&user, "Language: %s\n", c.Language)
	}
	if c.Abstract != "" {
		fmt.Fprintf(&user, "Abstract: %s\n", c.Abstract)
	}

	return []driven.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: strings.TrimSpace(user.String())},
	}, nil
}

// isSentinel reports whether reply is the rejection sentinel, tolerating
// surrounding quotes and punctuation.
func (g *Gate) isSentinel(reply string) bool {
	sentinel := strings.TrimSpace(g.settings.RejectSentinel)
	if sentinel == "" {
		return false
	}
	cleaned := strings.Trim(reply, " \t\r\n.。!！\"'`*")
	return strings.EqualFold(cleaned, sentinel)
}

// fail applies the configured failure policy.
func (g *Gate) fail(err error) domain.Verdict {
	if g.settings.FailurePolicy == domain.FailurePolicySkip {
		return domain.Skip(err)
	}
	return domain.AcceptDegraded(g.settings.Placeholder, err)
}

// classifyModelError normalises any call failure to a *domain.ModelCallError.
func classifyModelError(err error) error {
	var mcErr *domain.ModelCallError
	if errors.As(err, &mcErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.ModelCallError{Kind: domain.ModelCallTimeout, Err: err}
	}
	return &domain.ModelCallError{Kind: domain.ModelCallTransport, Err: err}
}
