// Package pipeline orchestrates the full document generation flow:
// extraction, normalization, prompt assembly, generation, and rendering.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/inspiredoc/inspiredoc/internal/extract"
	"github.com/inspiredoc/inspiredoc/internal/generate"
	"github.com/inspiredoc/inspiredoc/internal/normalize"
	"github.com/inspiredoc/inspiredoc/internal/observability"
	"github.com/inspiredoc/inspiredoc/internal/prompt"
	"github.com/inspiredoc/inspiredoc/internal/render"
	"github.com/inspiredoc/inspiredoc/internal/store"
	"github.com/inspiredoc/inspiredoc/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Pipeline stage names, used in StageError and progress events.
const (
	StageExtract  = "extract"
	StageValidate = "validate"
	StageAssemble = "assemble"
	StageGenerate = "generate"
	StageRender   = "render"
	StagePersist  = "persist"
)

// InputFile is one uploaded document before processing.
type InputFile struct {
	Role     types.Role
	Format   types.Format // zero value means detect from content
	Filename string
	Bytes    []byte
}

// RunOptions holds configuration for one pipeline run.
type RunOptions struct {
	Inputs          []InputFile
	Instruction     string
	Params          types.GenerationParams
	Budget          prompt.Budget
	PageBreaks      normalize.PageBreakPolicy
	ArtifactFormats []types.ArtifactFormat
	Verbose         bool
	OnProgress      ProgressCallback
}

// DocumentFailure records one input that could not be processed. The run
// continues with the remaining documents.
type DocumentFailure struct {
	ID       uuid.UUID  `json:"id"`
	Filename string     `json:"filename"`
	Role     types.Role `json:"role"`
	Err      error      `json:"-"`
	Message  string     `json:"error"`
}

// StageError wraps a non-recoverable pipeline failure with the stage it
// occurred in, so callers can present stage-specific messages.
type StageError struct {
	Stage      string
	DocumentID uuid.UUID
	Attempts   int
	Err        error
}

func (e *StageError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("pipeline stage %s failed after %d attempts: %v", e.Stage, e.Attempts, e.Err)
	}
	return fmt.Sprintf("pipeline stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// RunResult collects everything one run produced.
type RunResult struct {
	Documents        []*types.SourceDocument   `json:"documents"`
	DocumentFailures []DocumentFailure         `json:"document_failures,omitempty"`
	Prompt           *types.AssembledPrompt    `json:"prompt,omitempty"`
	Generation       *types.GenerationResult   `json:"generation,omitempty"`
	Artifacts        []*types.RenderedArtifact `json:"artifacts,omitempty"`
}

// Service wires the pipeline stages together. The generator and renderer
// are injected so tests can substitute deterministic implementations.
type Service struct {
	generator *generate.Generator
	renderer  *render.Renderer
	artifacts store.Store
	printer   *observability.Printer
}

// NewService creates a Service. The store may be nil, in which case
// artifacts are returned but not persisted.
func NewService(generator *generate.Generator, renderer *render.Renderer, artifacts store.Store) *Service {
	return &Service{
		generator: generator,
		renderer:  renderer,
		artifacts: artifacts,
		printer:   observability.NewPrinter(os.Stdout),
	}
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, stage, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:    step,
			Stage:   stage,
			Message: message,
			Content: content,
		})
	}
}

// Run orchestrates the full document generation pipeline.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	result := &RunResult{}

	// Step 1: extract and normalize every input; collect per-document
	// failures without aborting the batch.
	normOpts := normalize.Options{PageBreaks: opts.PageBreaks}
	for _, input := range opts.Inputs {
		doc, err := s.prepareDocument(input, normOpts)
		if err != nil {
			result.DocumentFailures = append(result.DocumentFailures, DocumentFailure{
				ID:       doc.ID,
				Filename: input.Filename,
				Role:     input.Role,
				Err:      err,
				Message:  err.Error(),
			})
			emitProgress(&opts, "document", StageExtract,
				fmt.Sprintf("failed to process %s: %v", input.Filename, err), nil)
			continue
		}
		result.Documents = append(result.Documents, doc)
		emitProgress(&opts, "document", StageExtract,
			fmt.Sprintf("processed %s (%d chars)", input.Filename, len(doc.NormalizedText)), nil)
	}
	if opts.Verbose {
		s.printer.PrintDocuments(result.Documents)
	}

	// Step 2: request validation. An empty request is rejected here,
	// before any model call.
	if opts.Params == (types.GenerationParams{}) {
		opts.Params = types.DefaultGenerationParams()
	}
	req := buildRequest(result.Documents, opts.Instruction, opts.Params)
	if err := req.Validate(); err != nil {
		return result, &StageError{Stage: StageValidate, Err: err}
	}

	// Step 3: prompt assembly. A zero budget means the caller did not
	// choose one; use the defaults rather than an unbounded prompt.
	budget := opts.Budget
	if budget == (prompt.Budget{}) {
		budget = prompt.DefaultBudget()
	}
	assembled, err := prompt.Assemble(req, budget)
	if err != nil {
		return result, &StageError{Stage: StageAssemble, Err: err}
	}
	result.Prompt = assembled
	if opts.Verbose {
		s.printer.PrintPrompt(assembled)
	}
	emitProgress(&opts, "prompt", StageAssemble,
		fmt.Sprintf("assembled prompt (%d chars, truncated=%v)", assembled.TotalLength, assembled.Truncated), nil)

	// Step 4: generation. A failed result is reported as-is, never
	// downgraded to a success.
	generation := s.generator.Generate(ctx, assembled, req.Params)
	result.Generation = generation
	if opts.Verbose {
		s.printer.PrintGenerationResult(generation)
	}
	emitProgress(&opts, "generation", StageGenerate,
		fmt.Sprintf("generation finished: %s after %d attempts", generation.Status, generation.Attempts), nil)
	if generation.Status == types.StatusFailed {
		return result, &StageError{Stage: StageGenerate, Attempts: generation.Attempts, Err: generation.Err}
	}

	// Step 5: render the requested artifacts in parallel. Renders are
	// pure per format, so they share nothing but the Markdown.
	if len(opts.ArtifactFormats) > 0 {
		artifacts, err := s.renderArtifacts(ctx, generation.Markdown, opts.ArtifactFormats)
		if err != nil {
			return result, &StageError{Stage: StageRender, Err: err}
		}
		result.Artifacts = artifacts
		if opts.Verbose {
			s.printer.PrintArtifacts(artifacts)
		}

		if s.artifacts != nil {
			for _, artifact := range artifacts {
				key := store.ArtifactKey(artifact.SourceMarkdownHash, string(artifact.Format))
				if err := s.artifacts.Put(ctx, key, artifact.Bytes); err != nil {
					return result, &StageError{Stage: StagePersist, Err: err}
				}
			}
			emitProgress(&opts, "persist", StagePersist,
				fmt.Sprintf("stored %d artifacts", len(artifacts)), nil)
		}
	}

	return result, nil
}

// prepareDocument runs extraction and normalization for one input.
func (s *Service) prepareDocument(input InputFile, normOpts normalize.Options) (*types.SourceDocument, error) {
	format := input.Format
	if format == "" {
		if parsed, err := types.ParseFormat(filepath.Ext(input.Filename)); err == nil {
			format = parsed
		} else if detected, ok := types.DetectFormat(input.Bytes); ok {
			format = detected
		} else {
			format = types.FormatTXT
		}
	}
	doc := types.NewSourceDocument(input.Role, format, input.Filename, input.Bytes)

	if err := extract.Document(doc); err != nil {
		return doc, err
	}
	doc.NormalizedText = normalize.Normalize(doc.ExtractedText, normOpts)
	return doc, nil
}

// buildRequest sorts prepared documents into the three roles.
func buildRequest(docs []*types.SourceDocument, instruction string, params types.GenerationParams) *types.GenerationRequest {
	req := &types.GenerationRequest{
		UserInstruction: instruction,
		Params:          params,
	}
	for _, doc := range docs {
		switch doc.Role {
		case types.RoleOldSource:
			req.Sources = append(req.Sources, doc)
		case types.RoleExemplar:
			req.Exemplars = append(req.Exemplars, doc)
		case types.RoleNewSource:
			req.NewSources = append(req.NewSources, doc)
		}
	}
	return req
}

// renderArtifacts renders each requested format concurrently.
func (s *Service) renderArtifacts(ctx context.Context, markdown string, formats []types.ArtifactFormat) ([]*types.RenderedArtifact, error) {
	g, gCtx := errgroup.WithContext(ctx)
	artifacts := make([]*types.RenderedArtifact, len(formats))

	for i, format := range formats {
		g.Go(func() error {
			artifact, err := s.renderer.Render(gCtx, markdown, format)
			if err != nil {
				return err
			}
			artifacts[i] = artifact
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}
