package llm

import (
	"context"
	"fmt"
	"log"

	"github.com/studybuddy/backend/internal/config"
)

// NewProvider builds the provider named by cfg.LLMProvider. Calls are not
// retried; a failure surfaces to the caller once.
func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch cfg.LLMProvider {
	case "ollama":
		p, err = NewOllamaProvider(cfg.OllamaURL, cfg.OllamaModel)
	case "openai":
		p, err = NewOpenAIProvider(OpenAIConfig{
			APIKey:  cfg.OpenAIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
	case "anthropic":
		p, err = NewAnthropicProvider(cfg.AnthropicKey, cfg.AnthropicModel)
	case "gemini":
		p, err = NewGeminiProvider(ctx, cfg.GeminiKey, cfg.GeminiModel)
	case "mock":
		p = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.LLMProvider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.LLMProvider, err)
	}

	log.Printf("[llm] using %s provider, model %s", cfg.LLMProvider, p.ModelID())
	return p, nil
}
