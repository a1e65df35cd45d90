package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `{
		"provider": "gemini",
		"model": "gemini-2.0-flash",
		"temperature": 0.5,
		"max_tokens": 2000,
		"fallback": "placeholder"
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.Equal(t, 0.5, cfg.Temperature)
	assert.Equal(t, 2000, cfg.MaxTokens)
	assert.Equal(t, "placeholder", cfg.Fallback)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Default(), false},
		{"empty", Config{}, false},
		{"unknown provider", Config{Provider: "anthropic"}, true},
		{"temperature too high", Config{Temperature: 2.5}, true},
		{"temperature negative", Config{Temperature: -0.1}, true},
		{"negative max tokens", Config{MaxTokens: -1}, true},
		{"negative attempts", Config{MaxAttempts: -1}, true},
		{"negative budget", Config{WindowBudget: -100}, true},
		{"unknown fallback", Config{Fallback: "retry-forever"}, true},
		{"unknown page breaks", Config{PageBreaks: "keep"}, true},
		{"valid separator policy", Config{PageBreaks: "separator"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Model: "gpt-4o-mini", MaxTokens: 1000}
	merged := cfg.MergeWithDefaults(Default())

	assert.Equal(t, "gpt-4o-mini", merged.Model, "explicit value wins")
	assert.Equal(t, 1000, merged.MaxTokens, "explicit value wins")
	assert.Equal(t, "openai", merged.Provider, "default fills empty")
	assert.Equal(t, 0.3, merged.Temperature, "default fills zero")
	assert.Equal(t, 3, merged.MaxAttempts)
	assert.Equal(t, "strip", merged.PageBreaks)
	assert.Equal(t, ":8080", merged.ListenAddr)
}

func TestAPIKeyFromEnv(t *testing.T) {
	cfg := Config{Provider: "openai", APIKey: "explicit"}
	assert.Equal(t, "explicit", cfg.APIKeyFromEnv(), "config value wins over env")

	t.Setenv("OPENAI_API_KEY", "from-env")
	cfg = Config{Provider: "openai"}
	assert.Equal(t, "from-env", cfg.APIKeyFromEnv())

	t.Setenv("GEMINI_API_KEY", "gemini-env")
	cfg = Config{Provider: "gemini"}
	assert.Equal(t, "gemini-env", cfg.APIKeyFromEnv())
}
