// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService provides chat completions for summarising and filtering items.
// This is an optional service - when nil, items are stored with the
// unconfigured marker and no digest is produced.
//
// Implementations may include:
//   - OpenAI-compatible APIs (DeepSeek, OpenAI)
//   - Anthropic (Claude)
//
// Failures should be returned as *domain.ModelCallError so callers can
// tell timeouts from bad statuses and malformed replies.
type LLMService interface {
	// Chat conducts a single exchange and returns the reply text.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
