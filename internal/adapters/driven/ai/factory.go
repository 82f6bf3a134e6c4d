// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"fmt"

	"github.com/custodia-labs/radar/internal/adapters/driven/config/file"
	anthropicllm "github.com/custodia-labs/radar/internal/adapters/driven/llm/anthropic"
	openaillm "github.com/custodia-labs/radar/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driven"
)

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	LLMService  driven.LLMService  // Nil when no credential is configured.
	PromptStore driven.PromptStore // User-customisable prompt templates.
	Warnings    []string           // Non-fatal issues; the run continues without a model.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init builds the model service and prompt store for a run.
// A missing credential or an unusable provider is reported as a warning,
// never an error: the pipeline runs with the unconfigured marker instead.
func Init(settings *domain.LLMSettings, promptDir string, defaults map[string]string) *InitResult {
	result := &InitResult{
		PromptStore: file.NewPromptStore(promptDir, defaults),
	}

	svc, err := CreateLLMService(settings)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, fmt.Sprintf("%v: %v", domain.ErrLLMUnavailable, err))
	case svc == nil:
		result.Warnings = append(result.Warnings, domain.ErrLLMUnavailable.Error()+": no API key configured")
	default:
		result.LLMService = svc
	}

	return result
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if no credential is configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || settings.APIKey == "" {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("%w: LLM provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// createOpenAILLM creates an OpenAI-compatible LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
