package render

import (
	"archive/zip"
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspiredoc/inspiredoc/internal/extract"
	"github.com/inspiredoc/inspiredoc/internal/types"
)

const sampleMarkdown = `# Quarterly Report

An *introduction* with **important** findings.

## Results

- first finding
- second finding
  - supporting detail

| Metric | Value |
| ------ | ----- |
| Uptime | 99.9  |

> Quoted conclusion.
`

func TestRenderHTMLDeterministic(t *testing.T) {
	r := New(DefaultOptions())

	first, err := r.Render(context.Background(), sampleMarkdown, types.ArtifactHTMLPreview)
	require.NoError(t, err)
	second, err := r.Render(context.Background(), sampleMarkdown, types.ArtifactHTMLPreview)
	require.NoError(t, err)

	assert.Equal(t, first.Bytes, second.Bytes)
	assert.Equal(t, first.SourceMarkdownHash, second.SourceMarkdownHash)
	assert.Equal(t, types.MarkdownHash(sampleMarkdown), first.SourceMarkdownHash)
}

func TestRenderHTMLContent(t *testing.T) {
	r := New(DefaultOptions())

	artifact, err := r.Render(context.Background(), sampleMarkdown, types.ArtifactHTMLPreview)
	require.NoError(t, err)

	page := string(artifact.Bytes)
	assert.Contains(t, page, "<h1")
	assert.Contains(t, page, "Quarterly Report")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<blockquote>")
	assert.Contains(t, page, "<strong>important</strong>")
}

func TestRenderHTMLSanitizesScript(t *testing.T) {
	r := New(DefaultOptions())

	artifact, err := r.Render(context.Background(), "# Hi\n\n<script>alert(1)</script>\n\nbody", types.ArtifactHTMLPreview)
	require.NoError(t, err)

	page := string(artifact.Bytes)
	assert.NotContains(t, page, "<script>")
	assert.Contains(t, page, "Hi")
}

func TestRenderUnsupportedFormat(t *testing.T) {
	r := New(DefaultOptions())

	_, err := r.Render(context.Background(), sampleMarkdown, types.ArtifactFormat("odt"))
	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)
}

func TestRenderDOCXPackageShape(t *testing.T) {
	r := New(DefaultOptions())

	artifact, err := r.Render(context.Background(), sampleMarkdown, types.ArtifactDOCX)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(artifact.Bytes), int64(len(artifact.Bytes)))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/document.xml",
		"word/styles.xml",
		"word/numbering.xml",
	} {
		assert.True(t, names[want], "missing package part %s", want)
	}
}

func TestRenderDOCXRoundTrip(t *testing.T) {
	r := New(DefaultOptions())

	artifact, err := r.Render(context.Background(), sampleMarkdown, types.ArtifactDOCX)
	require.NoError(t, err)

	extracted, err := extract.Extract(artifact.Bytes, types.FormatDOCX)
	require.NoError(t, err)

	assert.Contains(t, extracted, "# Quarterly Report")
	assert.Contains(t, extracted, "## Results")
	assert.Contains(t, extracted, "first finding")
	assert.Contains(t, extracted, "supporting detail")
	assert.Contains(t, extracted, "Metric | Value")
	assert.Contains(t, extracted, "Uptime | 99.9")
	assert.Contains(t, extracted, "Quoted conclusion.")
}

func TestRenderDOCXRoundTripTableShape(t *testing.T) {
	const md = `# Capacity

| Region | Nodes | Load |
| ------ | ----- | ---- |
| east   | 12    | 0.61 |
| west   | 8     | 0.43 |
| south  | 5     | 0.12 |
`
	r := New(DefaultOptions())

	artifact, err := r.Render(context.Background(), md, types.ArtifactDOCX)
	require.NoError(t, err)

	extracted, err := extract.Extract(artifact.Bytes, types.FormatDOCX)
	require.NoError(t, err)

	var rows [][]string
	for _, line := range strings.Split(extracted, "\n") {
		if strings.Contains(line, " | ") {
			rows = append(rows, strings.Split(line, " | "))
		}
	}
	require.Len(t, rows, 4, "header row plus three data rows")
	for i, row := range rows {
		assert.Len(t, row, 3, "row %d must keep all three columns", i)
	}
	assert.Equal(t, []string{"Region", "Nodes", "Load"}, rows[0])
	assert.Equal(t, []string{"west", "8", "0.43"}, rows[2])
}

func TestRenderDOCXDeterministic(t *testing.T) {
	r := New(DefaultOptions())

	first, err := r.renderDOCX([]byte(sampleMarkdown))
	require.NoError(t, err)
	second, err := r.renderDOCX([]byte(sampleMarkdown))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderDOCXEscapesMarkup(t *testing.T) {
	r := New(DefaultOptions())

	artifact, err := r.Render(context.Background(), "# Title\n\nvalue < 10 & flag > 0", types.ArtifactDOCX)
	require.NoError(t, err)

	extracted, err := extract.Extract(artifact.Bytes, types.FormatDOCX)
	require.NoError(t, err)
	assert.Contains(t, extracted, "value < 10 & flag > 0")
}

func TestRenderDOCXDeepListsFlatten(t *testing.T) {
	var md strings.Builder
	md.WriteString("# Deep\n\n")
	for i := 0; i < 7; i++ {
		md.WriteString(strings.Repeat("  ", i))
		md.WriteString("- level\n")
	}

	r := New(DefaultOptions())
	artifact, err := r.Render(context.Background(), md.String(), types.ArtifactDOCX)
	require.NoError(t, err, "deep nesting must flatten, not fail")

	extracted, err := extract.Extract(artifact.Bytes, types.FormatDOCX)
	require.NoError(t, err)
	assert.Contains(t, extracted, "level")
}

func TestRenderPDF(t *testing.T) {
	if !chromeAvailable() {
		t.Skip("no Chrome/Chromium installed")
	}

	r := New(DefaultOptions())
	artifact, err := r.Render(context.Background(), sampleMarkdown, types.ArtifactPDF)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(artifact.Bytes, []byte("%PDF")))
}

func chromeAvailable() bool {
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}
