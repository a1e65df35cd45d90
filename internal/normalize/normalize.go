// Package normalize canonicalizes extracted text before prompt assembly.
// Normalization is pure and total: any input maps to a string, possibly
// empty, and applying it twice yields the same result as applying it once.
package normalize

import (
	"regexp"
	"strings"
)

// PageBreakPolicy controls what happens to the page-break markers the
// extractor leaves in the text.
type PageBreakPolicy string

const (
	// PageBreakStrip removes the markers once they have served their
	// structural purpose, joining pages with a paragraph break.
	PageBreakStrip PageBreakPolicy = "strip"
	// PageBreakSeparator converts each marker into a canonical
	// "\n\n---\n\n" separator retained for prompt context.
	PageBreakSeparator PageBreakPolicy = "separator"
)

// pageSeparator is the canonical page separator under PageBreakSeparator.
const pageSeparator = "\n\n---\n\n"

// Options configure normalization. The zero value strips page breaks and
// preserves case, which keeps content fidelity intact.
type Options struct {
	PageBreaks PageBreakPolicy
	// FoldCase lowercases the text. Off by default: lexical folding
	// destroys content fidelity and is an explicit opt-in.
	FoldCase bool
}

var (
	spaceRunRe    = regexp.MustCompile(`[ \t]+`)
	blankRunRe    = regexp.MustCompile(`\n[ \t]*\n[\n \t]*`)
	pageFooterRe  = regexp.MustCompile(`(?im)^[ \t]*(page \d+ of \d+|\[page \d+\]|- ?\d+ ?-)[ \t]*$`)
	controlCharRe = regexp.MustCompile("[\x00-\x08\x0b\x0e-\x1f\x7f]")
)

// Normalize cleans extracted text: line endings, control characters,
// whitespace runs, residual page footers, and page-break markers per the
// configured policy. Paragraph breaks (blank lines) are preserved.
func Normalize(text string, opts Options) string {
	if text == "" {
		return ""
	}
	if opts.PageBreaks == "" {
		opts.PageBreaks = PageBreakStrip
	}

	// Line endings first so every later pattern only sees \n.
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	// Page-break markers before the control-character sweep, which would
	// silently eat \f.
	switch opts.PageBreaks {
	case PageBreakSeparator:
		text = strings.ReplaceAll(text, "\f", pageSeparator)
	default:
		text = strings.ReplaceAll(text, "\f", "\n\n")
	}

	text = controlCharRe.ReplaceAllString(text, "")
	text = pageFooterRe.ReplaceAllString(text, "")

	// Collapse horizontal whitespace runs, then trim line edges.
	text = spaceRunRe.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	// Runs of blank lines become a single paragraph break.
	text = blankRunRe.ReplaceAllString(text, "\n\n")

	if opts.FoldCase {
		text = strings.ToLower(text)
	}

	text = strings.TrimSpace(text)

	// Separators at the edges carry no structure.
	if opts.PageBreaks == PageBreakSeparator {
		for strings.HasPrefix(text, "---\n\n") {
			text = strings.TrimPrefix(text, "---\n\n")
		}
		for strings.HasSuffix(text, "\n\n---") {
			text = strings.TrimSuffix(text, "\n\n---")
		}
		if text == "---" {
			text = ""
		}
	}

	return text
}
