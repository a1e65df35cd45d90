package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inspiredoc/inspiredoc/internal/types"
)

func TestPrintDocuments(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	doc := types.NewSourceDocument(types.RoleOldSource, types.FormatPDF, "report.pdf", []byte("%PDF"))
	doc.ExtractedText = "raw text"
	doc.NormalizedText = "raw text"
	p.PrintDocuments([]*types.SourceDocument{doc})

	out := buf.String()
	assert.Contains(t, out, "Input Documents")
	assert.Contains(t, out, "report.pdf")
	assert.Contains(t, out, "extracted:")
}

func TestPrintDocumentsEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintDocuments(nil)
	assert.Empty(t, buf.String())
}

func TestPrintPrompt(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPrompt(&types.AssembledPrompt{
		SystemSection:      "system text",
		ContextSection:     "context text",
		InstructionSection: "do the thing",
		TotalLength:        35,
		Truncated:          true,
	})

	out := buf.String()
	assert.Contains(t, out, "Assembled Prompt")
	assert.Contains(t, out, "system:")
	assert.Contains(t, out, "truncated to fit window")
}

func TestPrintPromptNil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintPrompt(nil)
	assert.Empty(t, buf.String())
}

func TestPrintGenerationResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintGenerationResult(&types.GenerationResult{
		Status:    types.StatusFallback,
		ModelName: "gpt-4o",
		Attempts:  3,
		Markdown:  "# Doc",
		Usage:     types.Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	})

	out := buf.String()
	assert.Contains(t, out, "fallback")
	assert.Contains(t, out, "attempts: 3")
	assert.Contains(t, out, "150")
}

func TestPrintArtifacts(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintArtifacts([]*types.RenderedArtifact{
		{Format: types.ArtifactHTMLPreview, Bytes: []byte("<h1>x</h1>"), SourceMarkdownHash: "abcdef0123456789abcdef"},
	})

	out := buf.String()
	assert.Contains(t, out, "Artifacts")
	assert.Contains(t, out, "html")
	assert.Contains(t, out, "abcdef0123456789")
}

func TestOneLinePreview(t *testing.T) {
	assert.Equal(t, "", oneLinePreview("   \n\t "))
	assert.Equal(t, "a b c", oneLinePreview("a\n  b\tc"))

	long := oneLinePreview(string(bytes.Repeat([]byte("x"), 500)))
	assert.Len(t, long, previewLength+3)
}
