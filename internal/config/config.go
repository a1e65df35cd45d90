// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// Model
	Provider string `json:"provider,omitempty"` // "openai" or "gemini"
	Model    string `json:"model,omitempty"`    // Model identifier
	APIKey   string `json:"api_key,omitempty"`  // Provider API key
	BaseURL  string `json:"base_url,omitempty"` // Optional API base override

	// Generation
	Temperature float64 `json:"temperature,omitempty"` // Sampling temperature (0.0-2.0)
	MaxTokens   int     `json:"max_tokens,omitempty"`  // Completion token cap
	Style       string  `json:"style,omitempty"`       // Optional style directive

	// Prompt budgets (characters)
	ContextBudget     int `json:"context_budget,omitempty"`
	ExemplarBudget    int `json:"exemplar_budget,omitempty"`
	InstructionBudget int `json:"instruction_budget,omitempty"`
	WindowBudget      int `json:"window_budget,omitempty"`

	// Retry and fallback
	MaxAttempts int    `json:"max_attempts,omitempty"`
	Fallback    string `json:"fallback,omitempty"` // "none", "reduced", "placeholder"

	// Pipeline behavior
	PageBreaks string `json:"page_breaks,omitempty"` // "strip" or "separator"
	Verbose    bool   `json:"verbose,omitempty"`     // Print detailed progress

	// Output
	ExportDir  string `json:"export_dir,omitempty"`  // Directory for exported artifacts
	SQLitePath string `json:"sqlite_path,omitempty"` // Artifact cache database path

	// Server
	ListenAddr string `json:"listen_addr,omitempty"` // HTTP listen address
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Provider:    "openai",
		Model:       "gpt-4o",
		Temperature: 0.3,
		MaxTokens:   3000,
		MaxAttempts: 3,
		Fallback:    "none",
		PageBreaks:  "strip",
		ExportDir:   "exports",
		ListenAddr:  ":8080",
	}
}

// Load loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch c.Provider {
	case "", "openai", "gemini":
	default:
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config error: 'temperature' must be between 0.0 and 2.0")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("config error: 'max_tokens' must be non-negative")
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("config error: 'max_attempts' must be non-negative")
	}
	for name, v := range map[string]int{
		"context_budget":     c.ContextBudget,
		"exemplar_budget":    c.ExemplarBudget,
		"instruction_budget": c.InstructionBudget,
		"window_budget":      c.WindowBudget,
	} {
		if v < 0 {
			return fmt.Errorf("config error: '%s' must be non-negative", name)
		}
	}

	switch c.Fallback {
	case "", "none", "reduced", "placeholder":
	default:
		return fmt.Errorf("config error: unknown fallback policy %q", c.Fallback)
	}

	switch c.PageBreaks {
	case "", "strip", "separator":
	default:
		return fmt.Errorf("config error: unknown page_breaks policy %q", c.PageBreaks)
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.Style == "" {
		result.Style = defaults.Style
	}
	if result.Fallback == "" {
		result.Fallback = defaults.Fallback
	}
	if result.PageBreaks == "" {
		result.PageBreaks = defaults.PageBreaks
	}
	if result.ExportDir == "" {
		result.ExportDir = defaults.ExportDir
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}

	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}
	if result.MaxTokens == 0 {
		result.MaxTokens = defaults.MaxTokens
	}
	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}
	if result.ContextBudget == 0 {
		result.ContextBudget = defaults.ContextBudget
	}
	if result.ExemplarBudget == 0 {
		result.ExemplarBudget = defaults.ExemplarBudget
	}
	if result.InstructionBudget == 0 {
		result.InstructionBudget = defaults.InstructionBudget
	}
	if result.WindowBudget == 0 {
		result.WindowBudget = defaults.WindowBudget
	}

	if !result.Verbose {
		result.Verbose = defaults.Verbose
	}

	return result
}

// APIKeyFromEnv resolves the provider API key: the config value wins,
// then the provider-specific environment variable.
func (c *Config) APIKeyFromEnv() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	switch c.Provider {
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	default:
		return os.Getenv("OPENAI_API_KEY")
	}
}
