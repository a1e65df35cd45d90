package render

import (
	"context"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/inspiredoc/inspiredoc/internal/types"
)

// Options configures a Renderer.
type Options struct {
	// DocumentTitle is used for the HTML <title> and DOCX core
	// properties. Defaults to "Generated Document".
	DocumentTitle string
	// PDFTimeout bounds a single headless-browser print run.
	PDFTimeout time.Duration
}

// DefaultOptions returns the options used by the pipeline when the
// caller does not override them.
func DefaultOptions() Options {
	return Options{
		DocumentTitle: "Generated Document",
		PDFTimeout:    60 * time.Second,
	}
}

// Renderer converts Markdown into artifacts. Rendering the same
// Markdown twice yields byte-identical HTML and DOCX output; PDF bytes
// depend on the installed browser.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	opts   Options
}

// New creates a Renderer with GFM tables and strikethrough enabled.
func New(opts Options) *Renderer {
	if opts.DocumentTitle == "" {
		opts.DocumentTitle = "Generated Document"
	}
	if opts.PDFTimeout <= 0 {
		opts.PDFTimeout = 60 * time.Second
	}
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
		opts:   opts,
	}
}

// Render produces one artifact for the given format. The Markdown hash
// recorded on the artifact lets callers cache and re-fetch renders.
func (r *Renderer) Render(ctx context.Context, markdown string, format types.ArtifactFormat) (*types.RenderedArtifact, error) {
	var (
		body []byte
		err  error
	)
	switch format {
	case types.ArtifactHTMLPreview:
		body, err = r.renderHTML([]byte(markdown))
	case types.ArtifactPDF:
		body, err = r.renderPDF(ctx, []byte(markdown))
	case types.ArtifactDOCX:
		body, err = r.renderDOCX([]byte(markdown))
	default:
		return nil, &RenderError{Format: string(format), Message: "unsupported artifact format"}
	}
	if err != nil {
		return nil, err
	}
	return &types.RenderedArtifact{
		Format:             format,
		Bytes:              body,
		SourceMarkdownHash: types.MarkdownHash(markdown),
	}, nil
}
