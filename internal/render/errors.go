// Package render turns generated Markdown into preview and export
// artifacts: sanitized HTML, print-quality PDF, and DOCX.
package render

import "fmt"

// RenderError represents a failure producing an artifact from Markdown.
type RenderError struct {
	Format  string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error (%s): %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("render error (%s): %s", e.Format, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
