// Package llm provides the provider boundary for text generation. The
// concrete provider (OpenAI, Gemini) is swappable behind Client without
// touching prompt assembly or rendering.
package llm

import (
	"context"
	"fmt"
)

// Request is the provider-neutral request contract.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Response is the provider-neutral response contract.
type Response struct {
	Text         string
	FinishReason string
	Usage        Usage
}

// Usage reports token accounting from the provider, when available.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client is an abstraction over LLM providers.
type Client interface {
	// Complete sends one chat completion request and returns the text.
	Complete(ctx context.Context, req Request) (*Response, error)
	// ModelName returns the configured model identifier.
	ModelName() string
	// Close releases any resources held by the client.
	Close() error
}

// NewClient creates a client for the configured provider.
func NewClient(ctx context.Context, cfg *Config) (Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(cfg)
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
