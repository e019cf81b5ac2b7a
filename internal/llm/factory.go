package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/agenthands/moviesearch/internal/config"
)

// NewClient builds the generation backend named by cfg.Provider. The returned
// client performs a single call per Generate; wrap it with NewRetryClient for
// timeouts and retries.
func NewClient(ctx context.Context, cfg config.LLMConfig) (LLMClient, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "ollama":
		return NewOllamaClient(cfg.Model, cfg.BaseURL, http.DefaultClient)

	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)

	case "claude":
		return NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}
