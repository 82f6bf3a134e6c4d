package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// FilterMode selects how the gate treats model output.
type FilterMode string

// Available filter modes.
const (
	// FilterModeAlwaysSummarize summarises every candidate; nothing is rejected.
	FilterModeAlwaysSummarize FilterMode = "always_summarize"

	// FilterModeAIGatekept lets the model reject irrelevant candidates.
	FilterModeAIGatekept FilterMode = "ai_gatekept"
)

// IsValid returns true if the filter mode is recognised.
func (m FilterMode) IsValid() bool {
	return m == FilterModeAlwaysSummarize || m == FilterModeAIGatekept
}

// String returns the string representation.
func (m FilterMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m FilterMode) Description() string {
	switch m {
	case FilterModeAlwaysSummarize:
		return "Always summarise (no rejection)"
	case FilterModeAIGatekept:
		return "AI gatekept (model may reject)"
	default:
		return unknownDescription
	}
}

// FailurePolicy selects what the gate does when a model call fails.
type FailurePolicy string

// Available failure policies.
const (
	// FailurePolicyPlaceholder stores the item with a placeholder summary.
	FailurePolicyPlaceholder FailurePolicy = "placeholder"

	// FailurePolicySkip drops the item for this run only.
	FailurePolicySkip FailurePolicy = "skip"
)

// IsValid returns true if the failure policy is recognised.
func (p FailurePolicy) IsValid() bool {
	return p == FailurePolicyPlaceholder || p == FailurePolicySkip
}

// String returns the string representation.
func (p FailurePolicy) String() string {
	return string(p)
}

// AIProvider identifies a model inference provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenAI is any OpenAI-compatible chat completions API (DeepSeek by default).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOpenAI:
		return "OpenAI-compatible (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// DefaultLLMModels returns default models for each provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI:    "deepseek-chat",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}

// LLMSettings holds model provider configuration.
type LLMSettings struct {
	// Provider is the inference provider.
	Provider AIProvider

	// Model is the model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the credential read from the environment at startup.
	// Empty is a valid, recognised state.
	APIKey string
}

// IsConfigured returns true if a model can be called.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider.IsValid() && l.APIKey != ""
}

// GateSettings configures the relevance/summary gate.
type GateSettings struct {
	// Mode selects always-summarise or AI-gatekept behaviour.
	Mode FilterMode

	// FailurePolicy selects placeholder or skip on model call failure.
	FailurePolicy FailurePolicy

	// Placeholder is the summary stored under the placeholder policy.
	Placeholder string

	// RejectSentinel is the model reply that means "not relevant".
	RejectSentinel string

	// Topic is the subject the model judges relevance against.
	Topic string

	// Delay is the fixed pause between consecutive model calls.
	Delay time.Duration

	// Timeout bounds a single model call.
	Timeout time.Duration
}

// DigestSettings configures the digest generator.
type DigestSettings struct {
	// Path is the digest file.
	Path string

	// FallbackWindow is how many recent stored items feed the digest
	// when nothing was admitted this run.
	FallbackWindow int

	// MaxChars is the target length given to the model.
	MaxChars int

	// Timeout bounds the digest model call.
	Timeout time.Duration
}

// HistorySettings configures the history store.
type HistorySettings struct {
	// Path is the snapshot file.
	Path string

	// Capacity bounds the persisted history.
	Capacity int
}

// SourceSettings configures source fetching.
type SourceSettings struct {
	// Sources are fetched in this order.
	Sources []SourceDescriptor

	// Timeout bounds a single fetch.
	Timeout time.Duration

	// CourtesyDelay is the pause between consecutive sources.
	CourtesyDelay time.Duration

	// FreshnessDays is the default catalog freshness window.
	FreshnessDays int

	// PaperTag is the tag given to anything that is really a paper.
	PaperTag string
}

// RunLogSettings configures the run ledger.
type RunLogSettings struct {
	// Enabled turns the ledger on.
	Enabled bool

	// Path is the ledger database file.
	Path string

	// Keep is how many run records are retained.
	Keep int
}

// ScheduleSettings configures `radar schedule`.
type ScheduleSettings struct {
	// Cron is a standard five-field cron expression.
	Cron string

	// RunOnStart runs one pass immediately before waiting for the first tick.
	RunOnStart bool
}

// DefaultBackfillFallbackDate is stored for backfilled items without a usable timestamp.
const DefaultBackfillFallbackDate = "2024-01-01"

// BackfillSettings configures `radar backfill`.
type BackfillSettings struct {
	// Sources are the archive queries, fetched in this order.
	Sources []SourceDescriptor

	// FallbackDate replaces the date of undated items, in DateLayout.
	FallbackDate string
}

// Settings holds all application settings.
type Settings struct {
	Sources  SourceSettings
	Gate     GateSettings
	Digest   DigestSettings
	History  HistorySettings
	LLM      LLMSettings
	RunLog   RunLogSettings
	Schedule ScheduleSettings
	Backfill BackfillSettings
}

// DefaultSettings returns settings with sensible defaults.
// Paths are bare file names; callers resolve them against a data directory.
// The LLM is left without a credential.
func DefaultSettings() Settings {
	return Settings{
		Sources: SourceSettings{
			Timeout:       15 * time.Second,
			CourtesyDelay: time.Second,
			FreshnessDays: DefaultFreshnessDays,
			PaperTag:      DefaultPaperTag,
		},
		Gate: GateSettings{
			Mode:           FilterModeAlwaysSummarize,
			FailurePolicy:  FailurePolicyPlaceholder,
			Placeholder:    DefaultSummaryPlaceholder,
			RejectSentinel: "IRRELEVANT",
			Topic:          "embodied AI, humanoid robots and autonomous driving",
			Delay:          500 * time.Millisecond,
			Timeout:        20 * time.Second,
		},
		Digest: DigestSettings{
			Path:           "daily_brief.json",
			FallbackWindow: 10,
			MaxChars:       300,
			Timeout:        60 * time.Second,
		},
		History: HistorySettings{
			Path:     "data.json",
			Capacity: DefaultHistoryCapacity,
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultLLMModels()[AIProviderOpenAI],
		},
		RunLog: RunLogSettings{
			Enabled: true,
			Path:    "runs.db",
			Keep:    100,
		},
		Schedule: ScheduleSettings{
			Cron: "0 */6 * * *",
		},
		Backfill: BackfillSettings{
			Sources:      DefaultBackfillSources(),
			FallbackDate: DefaultBackfillFallbackDate,
		},
	}
}

// Validate checks settings that would make a run meaningless.
func (s *Settings) Validate() error {
	if !s.Gate.Mode.IsValid() {
		return fmt.Errorf("%w: gate mode %q (valid: always_summarize, ai_gatekept)", ErrInvalidInput, s.Gate.Mode)
	}
	if !s.Gate.FailurePolicy.IsValid() {
		return fmt.Errorf("%w: gate failure policy %q (valid: placeholder, skip)", ErrInvalidInput, s.Gate.FailurePolicy)
	}
	if s.History.Capacity <= 0 {
		return fmt.Errorf("%w: history capacity must be positive", ErrInvalidInput)
	}
	if s.History.Path == "" {
		return fmt.Errorf("%w: history path is required", ErrInvalidInput)
	}
	return validateSources(s.Sources.Sources)
}

// ValidateBackfill checks the settings `radar backfill` needs on top of Validate.
func (s *Settings) ValidateBackfill() error {
	if err := s.Validate(); err != nil {
		return err
	}
	if _, err := time.Parse(DateLayout, s.Backfill.FallbackDate); err != nil {
		return fmt.Errorf("%w: backfill fallback date %q must look like 2024-01-01", ErrInvalidInput, s.Backfill.FallbackDate)
	}
	return validateSources(s.Backfill.Sources)
}

func validateSources(sources []SourceDescriptor) error {
	seen := make(map[string]bool, len(sources))
	for _, src := range sources {
		if err := src.Validate(); err != nil {
			return err
		}
		if seen[src.Tag] {
			return fmt.Errorf("%w: duplicate source tag %q", ErrInvalidInput, src.Tag)
		}
		seen[src.Tag] = true
	}
	return nil
}
