package generate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspiredoc/inspiredoc/internal/llm"
	"github.com/inspiredoc/inspiredoc/internal/types"
)

// stubClient replays a scripted sequence of responses and errors.
type stubClient struct {
	script []stubTurn
	calls  int
	seen   []llm.Request
}

type stubTurn struct {
	resp *llm.Response
	err  error
}

func (s *stubClient) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	s.seen = append(s.seen, req)
	turn := s.script[len(s.script)-1]
	if s.calls < len(s.script) {
		turn = s.script[s.calls]
	}
	s.calls++
	return turn.resp, turn.err
}

func (s *stubClient) ModelName() string { return "stub-model" }
func (s *stubClient) Close() error      { return nil }

func ok(markdown string) stubTurn {
	return stubTurn{resp: &llm.Response{
		Text:         markdown,
		FinishReason: "stop",
		Usage:        llm.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
	}}
}

func transient() stubTurn {
	return stubTurn{err: &llm.TransientError{Message: "upstream overloaded"}}
}

func permanent() stubTurn {
	return stubTurn{err: &llm.PermanentError{Message: "invalid credentials"}}
}

func fastConfig(attempts int, fallback FallbackPolicy) Config {
	return Config{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		Fallback:       fallback,
	}
}

func testPrompt() *types.AssembledPrompt {
	return &types.AssembledPrompt{
		SystemSection:      "system",
		ContextSection:     "### Source 1 (old.txt):\nbody",
		InstructionSection: "### Requested generation:\nproduce the document",
	}
}

func TestGenerateSucceedsFirstAttempt(t *testing.T) {
	client := &stubClient{script: []stubTurn{ok("# Title\n\nBody.")}}
	g := New(client, fastConfig(3, FallbackNone))

	result := g.Generate(context.Background(), testPrompt(), types.DefaultGenerationParams())

	require.Equal(t, types.StatusSuccess, result.Status)
	assert.Equal(t, "# Title\n\nBody.", result.Markdown)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, "stub-model", result.ModelName)
	assert.Equal(t, "stop", result.FinishReason)
	assert.Equal(t, 30, result.Usage.TotalTokens)
}

func TestGenerateRetriesTransientThenSucceeds(t *testing.T) {
	client := &stubClient{script: []stubTurn{transient(), transient(), ok("# Recovered\n\nBody.")}}
	g := New(client, fastConfig(3, FallbackNone))

	result := g.Generate(context.Background(), testPrompt(), types.DefaultGenerationParams())

	require.Equal(t, types.StatusSuccess, result.Status)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 3, client.calls)
}

func TestGenerateRespectsAttemptBound(t *testing.T) {
	client := &stubClient{script: []stubTurn{transient()}}
	g := New(client, fastConfig(3, FallbackNone))

	result := g.Generate(context.Background(), testPrompt(), types.DefaultGenerationParams())

	require.Equal(t, types.StatusFailed, result.Status)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 3, client.calls)
	require.Error(t, result.Err)
	assert.NotEmpty(t, result.ErrMessage)
}

func TestGenerateNeverRetriesPermanentFailures(t *testing.T) {
	client := &stubClient{script: []stubTurn{permanent()}}
	g := New(client, fastConfig(5, FallbackReduced))

	result := g.Generate(context.Background(), testPrompt(), types.DefaultGenerationParams())

	require.Equal(t, types.StatusFailed, result.Status)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 1, client.calls, "permanent failures must not trigger retry or fallback")
	require.Error(t, result.Err)
}

func TestGenerateTreatsEmptyResponseAsTransient(t *testing.T) {
	client := &stubClient{script: []stubTurn{ok("   \n\t  "), ok("# Fine\n\nBody.")}}
	g := New(client, fastConfig(3, FallbackNone))

	result := g.Generate(context.Background(), testPrompt(), types.DefaultGenerationParams())

	require.Equal(t, types.StatusSuccess, result.Status)
	assert.Equal(t, 2, result.Attempts)
}

func TestGenerateFallbackReduced(t *testing.T) {
	client := &stubClient{script: []stubTurn{transient(), transient(), ok("# Smaller\n\nBody.")}}
	g := New(client, fastConfig(2, FallbackReduced))

	params := types.DefaultGenerationParams()
	result := g.Generate(context.Background(), testPrompt(), params)

	require.Equal(t, types.StatusFallback, result.Status)
	assert.Equal(t, "# Smaller\n\nBody.", result.Markdown)
	assert.Equal(t, 3, result.Attempts, "reduced attempt counts toward attempts")
	assert.NoError(t, result.Err)

	require.Len(t, client.seen, 3)
	full := client.seen[0]
	reduced := client.seen[2]
	assert.Less(t, len(reduced.User), len(full.User))
	assert.Equal(t, params.MaxTokens/2, reduced.MaxTokens)
}

func TestGenerateFallbackReducedStillFails(t *testing.T) {
	client := &stubClient{script: []stubTurn{transient()}}
	g := New(client, fastConfig(2, FallbackReduced))

	result := g.Generate(context.Background(), testPrompt(), types.DefaultGenerationParams())

	require.Equal(t, types.StatusFailed, result.Status)
	assert.Equal(t, 3, result.Attempts)
	require.Error(t, result.Err)
}

func TestGenerateFallbackPlaceholder(t *testing.T) {
	client := &stubClient{script: []stubTurn{transient()}}
	g := New(client, fastConfig(2, FallbackPlaceholder))

	result := g.Generate(context.Background(), testPrompt(), types.DefaultGenerationParams())

	require.Equal(t, types.StatusFallback, result.Status)
	assert.Equal(t, placeholderDocument, result.Markdown)
	assert.Equal(t, 2, result.Attempts)
	assert.NoError(t, result.Err)
	assert.True(t, hasStructure([]byte(result.Markdown)))
}

func TestGenerateFallbackNoneFails(t *testing.T) {
	client := &stubClient{script: []stubTurn{transient()}}
	g := New(client, fastConfig(2, FallbackNone))

	result := g.Generate(context.Background(), testPrompt(), types.DefaultGenerationParams())

	require.Equal(t, types.StatusFailed, result.Status)
	assert.Equal(t, 2, result.Attempts)
}

func TestGenerateContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &stubClient{script: []stubTurn{transient()}}
	g := New(client, fastConfig(10, FallbackNone))

	result := g.Generate(ctx, testPrompt(), types.DefaultGenerationParams())

	require.Equal(t, types.StatusFailed, result.Status)
	assert.LessOrEqual(t, result.Attempts, 2)
}

func TestAcceptMarkdown(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"heading", "# Title", true},
		{"list", "- one\n- two", true},
		{"two paragraphs", "first\n\nsecond", true},
		{"emphasis", "some *important* words", true},
		{"table", "| a | b |\n| - | - |\n| 1 | 2 |", true},
		{"empty", "", false},
		{"whitespace", "  \n\t ", false},
		{"bare line", "just one plain sentence", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := acceptMarkdown(tc.body)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, llm.IsTransient(err))
			}
		})
	}
}
