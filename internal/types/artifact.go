package types

import (
	"crypto/sha256"
	"encoding/hex"
)

// ArtifactFormat identifies a rendered export target.
type ArtifactFormat string

const (
	ArtifactHTMLPreview ArtifactFormat = "html"
	ArtifactPDF         ArtifactFormat = "pdf"
	ArtifactDOCX        ArtifactFormat = "docx"
)

// RenderedArtifact is one export of a generated Markdown document.
// Artifacts are pure functions of (markdown, format), so any artifact can
// be regenerated from the same Markdown without re-running generation.
type RenderedArtifact struct {
	Format             ArtifactFormat `json:"format"`
	Bytes              []byte         `json:"-"`
	SourceMarkdownHash string         `json:"source_markdown_hash"`
}

// MarkdownHash returns the hex sha256 of the Markdown an artifact was
// rendered from. The UI uses it as a cache key to re-fetch exports
// without recomputation.
func MarkdownHash(markdown string) string {
	sum := sha256.Sum256([]byte(markdown))
	return hex.EncodeToString(sum[:])
}
