package factory

import (
	"context"
	"fmt"

	"nichelens-be/pkg/llm"
	"nichelens-be/pkg/llm/gemini"
	"nichelens-be/pkg/llm/ollama"
)

type ProviderConfig struct {
	Provider   string // "gemini" or "ollama"
	Model      string
	ImageModel string
	BaseURL    string
	APIKey     string
}

func NewLLMProvider(ctx context.Context, cfg ProviderConfig) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "gemini", "":
		return gemini.NewGeminiProvider(ctx, cfg.APIKey, cfg.Model, cfg.ImageModel)
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
