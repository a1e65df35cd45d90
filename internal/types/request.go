package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrEmptyRequest is returned when a generation request carries no documents
// and no user instruction. Callers must reject such requests before prompt
// assembly so no LLM call is ever made for them.
var ErrEmptyRequest = errors.New("empty generation request: supply at least one document or a user instruction")

// GenerationParams are the model parameters for one generation call.
// The prompt assembler only reads them; it never mutates them.
type GenerationParams struct {
	Temperature float64 `json:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `json:"max_tokens" validate:"gt=0"`
	Style       string  `json:"style,omitempty"`
}

// DefaultGenerationParams mirrors the defaults the original service shipped
// with: moderate creativity, enough room for a full document.
func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		Temperature: 0.3,
		MaxTokens:   3000,
	}
}

var paramsValidator = validator.New()

// Validate checks parameter ranges.
func (p GenerationParams) Validate() error {
	if err := paramsValidator.Struct(p); err != nil {
		return fmt.Errorf("invalid generation params: %w", err)
	}
	return nil
}

// GenerationRequest is the fully-resolved input to one pipeline run:
// documents grouped by role, an optional free-text instruction, and
// model parameters.
type GenerationRequest struct {
	Sources         []*SourceDocument `json:"sources"`
	Exemplars       []*SourceDocument `json:"exemplars"`
	NewSources      []*SourceDocument `json:"new_sources"`
	UserInstruction string            `json:"user_instruction,omitempty"`
	Params          GenerationParams  `json:"params"`
}

// Validate rejects the empty request and out-of-range params.
func (r *GenerationRequest) Validate() error {
	if len(r.Sources) == 0 && len(r.Exemplars) == 0 && len(r.NewSources) == 0 &&
		strings.TrimSpace(r.UserInstruction) == "" {
		return ErrEmptyRequest
	}
	return r.Params.Validate()
}

// Documents returns all documents across the three roles in pipeline order:
// old sources, exemplars, new sources, each group in upload order.
func (r *GenerationRequest) Documents() []*SourceDocument {
	docs := make([]*SourceDocument, 0, len(r.Sources)+len(r.Exemplars)+len(r.NewSources))
	docs = append(docs, r.Sources...)
	docs = append(docs, r.Exemplars...)
	docs = append(docs, r.NewSources...)
	return docs
}
