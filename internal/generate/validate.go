package generate

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/inspiredoc/inspiredoc/internal/llm"
)

var validationParser = goldmark.New(goldmark.WithExtensions(extension.GFM))

// acceptMarkdown decides whether a model response is usable output. An
// empty or structureless response is treated as a transient failure so
// the retry loop asks the model again.
func acceptMarkdown(body string) error {
	if strings.TrimSpace(body) == "" {
		return &llm.TransientError{Message: "model returned an empty response"}
	}
	if !hasStructure([]byte(body)) {
		return &llm.TransientError{Message: "model response contains no document structure"}
	}
	return nil
}

// hasStructure reports whether the Markdown parses into something richer
// than a single bare paragraph: a heading, list, table, code block,
// blockquote, inline emphasis or link, or at least two blocks.
func hasStructure(source []byte) bool {
	root := validationParser.Parser().Parse(text.NewReader(source))

	blocks := 0
	structured := false
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Document:
			return ast.WalkContinue, nil
		case *ast.Heading, *ast.List, *ast.FencedCodeBlock, *ast.CodeBlock,
			*ast.Blockquote, *ast.ThematicBreak, *ast.Emphasis, *ast.Link:
			structured = true
			return ast.WalkStop, nil
		}
		if n.Type() == ast.TypeBlock {
			blocks++
			if blocks >= 2 {
				structured = true
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})
	return structured
}
