package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(ctx context.Context, cfg *Config) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: cfg.Model}, nil
}

// Complete sends one generation request.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (*Response, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		return nil, Classify(err)
	}

	text, finish, err := extractGeminiText(resp)
	if err != nil {
		return nil, err
	}

	out := &Response{Text: text, FinishReason: finish}
	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}

// ModelName returns the configured model identifier.
func (c *GeminiClient) ModelName() string { return c.model }

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractGeminiText joins the text parts of the first candidate. A safety
// block is permanent; an empty candidate list is worth a retry.
func extractGeminiText(resp *genai.GenerateContentResponse) (string, string, error) {
	if len(resp.Candidates) == 0 {
		return "", "", &TransientError{Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	finish := candidate.FinishReason.String()
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", finish, &PermanentError{Message: "content policy rejection"}
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", finish, &TransientError{Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", finish, &TransientError{Message: "no text parts in response"}
	}
	return strings.Join(parts, ""), finish, nil
}
