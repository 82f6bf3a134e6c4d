package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driven"
)

func gateSettings(mode domain.FilterMode, policy domain.FailurePolicy) domain.GateSettings {
	s := domain.DefaultSettings().Gate
	s.Mode = mode
	s.FailurePolicy = policy
	s.Delay = 0
	s.Timeout = time.Second
	return s
}

func TestGate_NoLLM_AcceptsWithUnconfiguredMarker(t *testing.T) {
	g := NewGate(nil, gateSettings(domain.FilterModeAIGatekept, domain.FailurePolicySkip), "")

	v := g.Judge(context.Background(), candidate("A", "EN·Tech", 1))

	assert.Equal(t, domain.VerdictAccepted, v.Kind)
	assert.True(t, v.Degraded)
	assert.Equal(t, domain.SummaryUnconfigured, v.Summary)
	assert.True(t, errors.Is(v.Err, domain.ErrLLMUnavailable))
}

func TestGate_AcceptsSummary(t *testing.T) {
	llm := replyWith("  【核心内容】发布新机器人。\n")
	g := NewGate(llm, gateSettings(domain.FilterModeAlwaysSummarize, domain.FailurePolicyPlaceholder), "")

	v := g.Judge(context.Background(), candidate("Robot launch", "CN·行业", 1))

	assert.Equal(t, domain.VerdictAccepted, v.Kind)
	assert.False(t, v.Degraded)
	assert.Equal(t, "【核心内容】发布新机器人。", v.Summary)
	assert.NoError(t, v.Err)

	msgs := llm.lastCall()
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "embodied AI")
	assert.NotContains(t, msgs[0].Content, "IRRELEVANT")
	assert.Contains(t, msgs[1].Content, "Title: Robot launch")
	assert.Contains(t, msgs[1].Content, "Language: CN")
	assert.Equal(t, gateMaxTokens, llm.opts[0].MaxTokens)
}

func TestGate_Gatekept_SentinelRejects(t *testing.T) {
	for _, reply := range []string{"IRRELEVANT", " irrelevant. ", "\"IRRELEVANT\""} {
		llm := replyWith(reply)
		g := NewGate(llm, gateSettings(domain.FilterModeAIGatekept, domain.FailurePolicyPlaceholder), "")

		v := g.Judge(context.Background(), candidate("Celebrity gossip", "EN·Tech", 1))
		assert.Equal(t, domain.VerdictRejected, v.Kind, "reply %q", reply)
		assert.Contains(t, llm.lastCall()[0].Content, "IRRELEVANT")
	}
}

func TestGate_AlwaysSummarize_SentinelIsMalformed(t *testing.T) {
	g := NewGate(replyWith("IRRELEVANT"), gateSettings(domain.FilterModeAlwaysSummarize, domain.FailurePolicyPlaceholder), "")

	v := g.Judge(context.Background(), candidate("Celebrity gossip", "EN·Tech", 1))

	assert.Equal(t, domain.VerdictAccepted, v.Kind)
	assert.True(t, v.Degraded)
	assert.Equal(t, domain.DefaultSummaryPlaceholder, v.Summary)
	var mcErr *domain.ModelCallError
	require.True(t, errors.As(v.Err, &mcErr))
	assert.Equal(t, domain.ModelCallMalformed, mcErr.Kind)
}

func TestGate_FailurePolicies(t *testing.T) {
	callErr := &domain.ModelCallError{Kind: domain.ModelCallStatus, Err: errors.New("status 500")}

	t.Run("placeholder", func(t *testing.T) {
		settings := gateSettings(domain.FilterModeAIGatekept, domain.FailurePolicyPlaceholder)
		settings.Placeholder = "分析失败"
		g := NewGate(failWith(callErr), settings, "")

		v := g.Judge(context.Background(), candidate("A", "EN·Tech", 1))
		assert.Equal(t, domain.VerdictAccepted, v.Kind)
		assert.True(t, v.Degraded)
		assert.Equal(t, "分析失败", v.Summary)
		assert.True(t, errors.Is(v.Err, domain.ErrModelCall))
	})

	t.Run("skip", func(t *testing.T) {
		g := NewGate(failWith(callErr), gateSettings(domain.FilterModeAlwaysSummarize, domain.FailurePolicySkip), "")

		v := g.Judge(context.Background(), candidate("A", "EN·Tech", 1))
		assert.Equal(t, domain.VerdictSkipped, v.Kind)
		assert.True(t, errors.Is(v.Err, domain.ErrModelCall))
	})

	t.Run("plain error is classified as transport", func(t *testing.T) {
		g := NewGate(failWith(errors.New("connection reset")), gateSettings(domain.FilterModeAlwaysSummarize, domain.FailurePolicySkip), "")

		v := g.Judge(context.Background(), candidate("A", "EN·Tech", 1))
		var mcErr *domain.ModelCallError
		require.True(t, errors.As(v.Err, &mcErr))
		assert.Equal(t, domain.ModelCallTransport, mcErr.Kind)
	})
}

func TestGate_TimeoutIsBounded(t *testing.T) {
	settings := gateSettings(domain.FilterModeAlwaysSummarize, domain.FailurePolicyPlaceholder)
	settings.Timeout = 20 * time.Millisecond
	g := NewGate(&mockLLM{block: true}, settings, "")

	start := time.Now()
	v := g.Judge(context.Background(), candidate("A", "EN·Tech", 1))

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, v.Degraded)
	var mcErr *domain.ModelCallError
	require.True(t, errors.As(v.Err, &mcErr))
	assert.Equal(t, domain.ModelCallTimeout, mcErr.Kind)
}

func TestGate_EmptyReplyIsMalformed(t *testing.T) {
	g := NewGate(replyWith("   "), gateSettings(domain.FilterModeAlwaysSummarize, domain.FailurePolicySkip), "")

	v := g.Judge(context.Background(), candidate("A", "EN·Tech", 1))
	assert.Equal(t, domain.VerdictSkipped, v.Kind)
}

func TestGate_PaperUsesAcademicPromptAndAbstract(t *testing.T) {
	llm := replyWith("研究方向：具身导航。")
	g := NewGate(llm, gateSettings(domain.FilterModeAlwaysSummarize, domain.FailurePolicyPlaceholder), "")

	c := candidate("Embodied Navigation", domain.DefaultPaperTag, 1)
	c.Abstract = "We propose a navigation policy."
	v := g.Judge(context.Background(), c)
	require.Equal(t, domain.VerdictAccepted, v.Kind)

	msgs := llm.lastCall()
	assert.Contains(t, msgs[0].Content, "学术助手")
	assert.Contains(t, msgs[0].Content, "和摘要")
	assert.Contains(t, msgs[1].Content, "Abstract: We propose a navigation policy.")
}

func TestGate_ArxivTitleUsesAcademicPrompt(t *testing.T) {
	llm := replyWith("ok")
	g := NewGate(llm, gateSettings(domain.FilterModeAlwaysSummarize, domain.FailurePolicyPlaceholder), "")

	g.Judge(context.Background(), candidate("New arXiv preprint on humanoids", "EN·Tech", 1))
	assert.Contains(t, llm.lastCall()[0].Content, "学术助手")
}

func TestGate_CustomPromptStore(t *testing.T) {
	llm := replyWith("ok")
	settings := gateSettings(domain.FilterModeAIGatekept, domain.FailurePolicyPlaceholder)
	settings.Topic = "robotics"
	g := NewGate(llm, settings, "")
	g.SetPromptStore(&mockPromptStore{prompts: map[string]string{
		driven.PromptSummarise: "Judge for {{.Topic}}{{if .Gatekept}}; say {{.Sentinel}} if off-topic{{end}}.",
	}})

	g.Judge(context.Background(), candidate("A", "EN·Tech", 1))
	assert.Equal(t, "Judge for robotics; say IRRELEVANT if off-topic.", llm.lastCall()[0].Content)
}

func TestGate_BrokenCustomPromptFallsBack(t *testing.T) {
	llm := replyWith("ok")
	g := NewGate(llm, gateSettings(domain.FilterModeAlwaysSummarize, domain.FailurePolicyPlaceholder), "")
	g.SetPromptStore(&mockPromptStore{prompts: map[string]string{
		driven.PromptSummarise: "Broken {{.Topic",
	}})

	v := g.Judge(context.Background(), candidate("A", "EN·Tech", 1))
	assert.Equal(t, domain.VerdictAccepted, v.Kind)
	assert.True(t, strings.HasPrefix(llm.lastCall()[0].Content, "你是一名科技情报分析师"))
}

func TestGate_DelaySpacesCalls(t *testing.T) {
	settings := gateSettings(domain.FilterModeAlwaysSummarize, domain.FailurePolicyPlaceholder)
	settings.Delay = 40 * time.Millisecond
	g := NewGate(replyWith("ok"), settings, "")

	start := time.Now()
	for i := 0; i < 3; i++ {
		g.Judge(context.Background(), candidate("A", "EN·Tech", 1))
	}
	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
}

func TestGate_CancelledContextSkipsRegardlessOfPolicy(t *testing.T) {
	llm := replyWith("ok")
	g := NewGate(llm, gateSettings(domain.FilterModeAlwaysSummarize, domain.FailurePolicyPlaceholder), "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v := g.Judge(ctx, candidate("A", "EN·Tech", 1))

	assert.Equal(t, domain.VerdictSkipped, v.Kind)
	assert.ErrorIs(t, v.Err, context.Canceled)
	assert.Equal(t, 0, llm.callCount())
}

func TestGate_CancelDuringCallSkips(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	llm := &mockLLM{reply: func([]driven.ChatMessage) (string, error) {
		cancel()
		return "", context.Canceled
	}}
	g := NewGate(llm, gateSettings(domain.FilterModeAlwaysSummarize, domain.FailurePolicyPlaceholder), "")

	v := g.Judge(ctx, candidate("A", "EN·Tech", 1))

	assert.Equal(t, domain.VerdictSkipped, v.Kind)
	assert.False(t, v.Degraded)
	assert.ErrorIs(t, v.Err, context.Canceled)
}

func TestGate_DelayFollowsSlowCalls(t *testing.T) {
	settings := gateSettings(domain.FilterModeAlwaysSummarize, domain.FailurePolicyPlaceholder)
	settings.Delay = 40 * time.Millisecond
	llm := &mockLLM{reply: func([]driven.ChatMessage) (string, error) {
		time.Sleep(60 * time.Millisecond)
		return "ok", nil
	}}
	g := NewGate(llm, settings, "")

	start := time.Now()
	g.Judge(context.Background(), candidate("A", "EN·Tech", 1))
	g.Judge(context.Background(), candidate("B", "EN·Tech", 1))

	// Two 60ms calls plus one full 40ms pause between them.
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}
