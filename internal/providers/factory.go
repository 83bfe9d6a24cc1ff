package providers

import (
	"fmt"

	"github.com/Sma1lboy/ArcticAI/internal/agent"
	"github.com/Sma1lboy/ArcticAI/internal/config"
)

// New builds the LLM client selected by the provider configuration.
func New(cfg config.Provider) (agent.LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Name)
	}
	switch cfg.Name {
	case "openai":
		model := cfg.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		return NewOpenAIClient(cfg.APIKey, model, cfg.BaseURL)
	case "anthropic":
		model := cfg.Model
		if model == "" {
			model = "claude-3-5-sonnet-latest"
		}
		return NewAnthropicClient(cfg.APIKey, model)
	default:
		return nil, fmt.Errorf("unknown provider %q (supported: openai, anthropic)", cfg.Name)
	}
}
