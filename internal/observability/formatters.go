// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/inspiredoc/inspiredoc/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// previewLength is how much section text to show before truncating
	previewLength = 160
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDocuments outputs a per-document summary of the extraction stage.
func (p *Printer) PrintDocuments(docs []*types.SourceDocument) {
	if len(docs) == 0 {
		return
	}

	var sb strings.Builder
	for _, doc := range docs {
		sb.WriteString(fmt.Sprintf("%-12s %s (%s)\n", doc.Role, doc.Filename, doc.Format))
		sb.WriteString(fmt.Sprintf("  extracted:  %d chars\n", len(doc.ExtractedText)))
		sb.WriteString(fmt.Sprintf("  normalized: %d chars\n", len(doc.NormalizedText)))
	}

	p.printBox("Input Documents", strings.TrimRight(sb.String(), "\n"))
}

// PrintPrompt outputs the assembled prompt sections with lengths and a
// short preview of each.
func (p *Printer) PrintPrompt(prompt *types.AssembledPrompt) {
	if prompt == nil {
		return
	}

	var sb strings.Builder
	sections := []struct {
		name string
		text string
	}{
		{"system", prompt.SystemSection},
		{"context", prompt.ContextSection},
		{"exemplar", prompt.ExemplarSection},
		{"instruction", prompt.InstructionSection},
	}
	for _, s := range sections {
		sb.WriteString(fmt.Sprintf("%-12s %d chars\n", s.name+":", len(s.text)))
		if preview := oneLinePreview(s.text); preview != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", preview))
		}
	}
	sb.WriteString(fmt.Sprintf("\ntotal: %d chars", prompt.TotalLength))
	if prompt.Truncated {
		sb.WriteString("  (truncated to fit window)")
	}

	p.printBox("Assembled Prompt", sb.String())
}

// PrintGenerationResult outputs the outcome of the model call: status,
// attempt count, and token usage when reported.
func (p *Printer) PrintGenerationResult(result *types.GenerationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("status:   %s\n", result.Status))
	sb.WriteString(fmt.Sprintf("model:    %s\n", result.ModelName))
	sb.WriteString(fmt.Sprintf("attempts: %d\n", result.Attempts))
	if result.FinishReason != "" {
		sb.WriteString(fmt.Sprintf("finish:   %s\n", result.FinishReason))
	}
	if result.Usage.TotalTokens > 0 {
		sb.WriteString(fmt.Sprintf("tokens:   %d prompt + %d completion = %d\n",
			result.Usage.PromptTokens, result.Usage.CompletionTokens, result.Usage.TotalTokens))
	}
	if result.ErrMessage != "" {
		sb.WriteString(fmt.Sprintf("error:    %s\n", result.ErrMessage))
	}
	sb.WriteString(fmt.Sprintf("output:   %d chars of Markdown", len(result.Markdown)))

	p.printBox("Generation", sb.String())
}

// PrintArtifacts outputs the rendered artifact formats and sizes.
func (p *Printer) PrintArtifacts(artifacts []*types.RenderedArtifact) {
	if len(artifacts) == 0 {
		return
	}

	var sb strings.Builder
	for _, a := range artifacts {
		sb.WriteString(fmt.Sprintf("%-6s %d bytes\n", a.Format, len(a.Bytes)))
	}
	sb.WriteString(fmt.Sprintf("hash: %.16s...", artifacts[0].SourceMarkdownHash))

	p.printBox("Artifacts", sb.String())
}

// oneLinePreview collapses text to a single short line for box output.
func oneLinePreview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}
	if len(text) > previewLength {
		text = text[:previewLength] + "..."
	}
	return text
}
