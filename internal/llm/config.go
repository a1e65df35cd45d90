package llm

import "fmt"

// Provider represents an LLM provider.
type Provider string

const (
	// ProviderOpenAI targets the OpenAI chat completions API (or any
	// compatible endpoint via BaseURL).
	ProviderOpenAI Provider = "openai"
	// ProviderGemini targets Google Gemini.
	ProviderGemini Provider = "gemini"
)

// Config holds provider selection and credentials. It is passed explicitly
// at construction so tests can inject deterministic stubs instead of
// reading ambient state.
type Config struct {
	Provider Provider
	Model    string
	APIKey   string
	// BaseURL overrides the provider endpoint; OpenAI-compatible
	// gateways use this.
	BaseURL string
}

// DefaultConfig returns the default provider configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Model:    "gpt-4o",
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("llm: API key is required")
	}
	if c.Model == "" {
		return fmt.Errorf("llm: model is required")
	}
	return nil
}
