package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/tweetprep/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		// No provider configured - return nil (LLM disabled)
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// ConfigFromModel builds provider configuration from the application config
func ConfigFromModel(cfg *model.Config) Config {
	return Config{
		Provider:          cfg.LLM.Provider,
		Model:             cfg.LLM.Model,
		APIKey:            cfg.LLM.APIKey,
		BaseURL:           cfg.LLM.BaseURL,
		Timeout:           cfg.LLM.Timeout,
		Strict:            cfg.LLM.Strict,
		MaxTokens:         cfg.LLM.MaxTokens,
		RequestsPerSecond: cfg.RateLimiting.RequestsPerSecond,
		BurstSize:         cfg.RateLimiting.BurstSize,
		HTTPProxy:         cfg.HTTP.HTTPProxy,
		HTTPSProxy:        cfg.HTTP.HTTPSProxy,
		NoProxy:           cfg.HTTP.NoProxy,
	}
}
