// Package types defines the shared data model for the document generation pipeline.
package types

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
)

// Role identifies what a source document contributes to the generation request.
type Role string

const (
	// RoleOldSource is the original reference document the exemplar was derived from
	RoleOldSource Role = "old_source"
	// RoleExemplar is a document supplied solely to convey target style and structure
	RoleExemplar Role = "exemplar"
	// RoleNewSource is the new content the generated document must be grounded in
	RoleNewSource Role = "new_source"
)

// Format identifies the original file format of an uploaded document.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatTXT  Format = "txt"
	FormatDOCX Format = "docx"
)

// SourceDocument is one uploaded file moving through the pipeline.
// Extraction sets ExtractedText, normalization sets NormalizedText;
// the document is immutable after that.
type SourceDocument struct {
	ID             uuid.UUID `json:"id"`
	Role           Role      `json:"role"`
	Format         Format    `json:"format"`
	Filename       string    `json:"filename,omitempty"`
	RawBytes       []byte    `json:"-"`
	ExtractedText  string    `json:"extracted_text,omitempty"`
	NormalizedText string    `json:"normalized_text,omitempty"`
}

// NewSourceDocument wraps raw upload bytes with a fresh ID.
func NewSourceDocument(role Role, format Format, filename string, raw []byte) *SourceDocument {
	return &SourceDocument{
		ID:       uuid.New(),
		Role:     role,
		Format:   format,
		Filename: filename,
		RawBytes: raw,
	}
}

// Label returns a stable human-readable identifier for prompt sections
// and error messages.
func (d *SourceDocument) Label() string {
	if d.Filename != "" {
		return d.Filename
	}
	return d.ID.String()
}

// ParseFormat maps a declared extension (with or without a leading dot)
// to a Format.
func ParseFormat(ext string) (Format, error) {
	switch ext {
	case "pdf", ".pdf":
		return FormatPDF, nil
	case "txt", ".txt":
		return FormatTXT, nil
	case "docx", ".docx":
		return FormatDOCX, nil
	}
	return "", fmt.Errorf("unsupported format: %q", ext)
}

// DetectFormat sniffs the file format from magic bytes. PDF files start
// with %PDF, DOCX files are zip archives (PK). Anything that decodes as
// text falls back to TXT.
func DetectFormat(raw []byte) (Format, bool) {
	if bytes.HasPrefix(raw, []byte("%PDF")) {
		return FormatPDF, true
	}
	if bytes.HasPrefix(raw, []byte("PK\x03\x04")) {
		return FormatDOCX, true
	}
	if len(raw) > 0 {
		return FormatTXT, true
	}
	return "", false
}
