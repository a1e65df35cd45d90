// Package generate wraps the LLM client with bounded retry, failure
// classification, and fallback policy. It owns the decision of whether a
// model response is acceptable Markdown.
package generate

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/inspiredoc/inspiredoc/internal/llm"
	"github.com/inspiredoc/inspiredoc/internal/types"
)

// FallbackPolicy selects what happens when every retry exhausts on
// transient failures.
type FallbackPolicy string

const (
	// FallbackNone reports FAILED with the last error.
	FallbackNone FallbackPolicy = "none"
	// FallbackReduced makes one degraded attempt: trimmed prompt and
	// halved max tokens. Success is tagged FALLBACK, never SUCCESS.
	FallbackReduced FallbackPolicy = "reduced"
	// FallbackPlaceholder substitutes a deterministic placeholder
	// document, tagged FALLBACK.
	FallbackPlaceholder FallbackPolicy = "placeholder"
)

// Config bounds the retry loop. Retries are sequential: one logical
// request never has concurrent attempts in flight.
type Config struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Fallback       FallbackPolicy
}

// DefaultConfig retries three times with a short exponential backoff and
// no fallback.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     8 * time.Second,
		Fallback:       FallbackNone,
	}
}

// Generator executes generation requests against a Client.
type Generator struct {
	client llm.Client
	cfg    Config
}

// New creates a Generator. The client is injected so tests can supply
// deterministic stubs.
func New(client llm.Client, cfg Config) *Generator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 500 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 8 * time.Second
	}
	if cfg.Fallback == "" {
		cfg.Fallback = FallbackNone
	}
	return &Generator{client: client, cfg: cfg}
}

// Generate runs the retry state machine for one assembled prompt and
// always returns a terminal result: SUCCESS, FALLBACK, or FAILED.
func (g *Generator) Generate(ctx context.Context, prompt *types.AssembledPrompt, params types.GenerationParams) *types.GenerationResult {
	result := &types.GenerationResult{
		Status:    types.StatusFailed,
		ModelName: g.client.ModelName(),
	}

	req := llm.Request{
		System:      prompt.SystemSection,
		User:        prompt.UserText(),
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}

	resp, err := g.attemptWithRetry(ctx, req, &result.Attempts)
	if err == nil {
		result.Status = types.StatusSuccess
		result.Markdown = resp.Text
		result.FinishReason = resp.FinishReason
		result.Usage = types.Usage(resp.Usage)
		return result
	}

	if !llm.IsTransient(err) {
		// Permanent failures short-circuit: no fallback, no silent
		// downgrade to success.
		result.Err = err
		result.ErrMessage = err.Error()
		return result
	}

	return g.applyFallback(ctx, req, result, err)
}

// attemptWithRetry calls the client with exponential backoff, bounded by
// MaxAttempts. Permanent failures stop the loop immediately; attempts is
// incremented for every call actually made.
func (g *Generator) attemptWithRetry(ctx context.Context, req llm.Request, attempts *int) (*llm.Response, error) {
	operation := func() (*llm.Response, error) {
		*attempts++
		resp, err := g.client.Complete(ctx, req)
		if err != nil {
			err = llm.Classify(err)
			if !llm.IsTransient(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		if err := acceptMarkdown(resp.Text); err != nil {
			return nil, err
		}
		return resp, nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = g.cfg.InitialBackoff
	expo.MaxInterval = g.cfg.MaxBackoff

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(uint(g.cfg.MaxAttempts)),
	)
}

// applyFallback resolves a transient-exhausted run per policy. Whatever
// the policy produces is tagged FALLBACK, never SUCCESS.
func (g *Generator) applyFallback(ctx context.Context, req llm.Request, result *types.GenerationResult, cause error) *types.GenerationResult {
	result.Err = cause
	result.ErrMessage = cause.Error()

	switch g.cfg.Fallback {
	case FallbackReduced:
		reduced := req
		reduced.User = trimToHalf(req.User)
		if reduced.MaxTokens > 0 {
			reduced.MaxTokens /= 2
		}
		result.Attempts++
		resp, err := g.client.Complete(ctx, reduced)
		if err == nil {
			if vErr := acceptMarkdown(resp.Text); vErr == nil {
				result.Status = types.StatusFallback
				result.Markdown = resp.Text
				result.FinishReason = resp.FinishReason
				result.Usage = types.Usage(resp.Usage)
				result.Err = nil
				result.ErrMessage = ""
			}
		}
		return result

	case FallbackPlaceholder:
		result.Status = types.StatusFallback
		result.Markdown = placeholderDocument
		result.Err = nil
		result.ErrMessage = ""
		return result

	default:
		return result
	}
}

// placeholderDocument is the deterministic result used by
// FallbackPlaceholder. It is valid Markdown with structure so downstream
// rendering still works.
const placeholderDocument = `# Generation Unavailable

The document could not be generated because the language model was
repeatedly unreachable.

- Your uploaded documents were processed successfully.
- Retry the generation once the service recovers.`

// trimToHalf cuts a prompt body to its first half on a rune boundary.
func trimToHalf(s string) string {
	if len(s) < 2 {
		return s
	}
	cut := []byte(s[:len(s)/2])
	for len(cut) > 0 && cut[len(cut)-1]&0xC0 == 0x80 {
		cut = cut[:len(cut)-1]
	}
	return string(cut)
}
