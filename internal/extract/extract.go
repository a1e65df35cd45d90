package extract

import (
	"github.com/inspiredoc/inspiredoc/internal/types"
)

// PageBreak is the structural marker separating pages in extracted text.
// The normalizer later strips it or converts it to a canonical separator,
// depending on configuration.
const PageBreak = "\f"

// Extract dispatches on format and returns the extracted text with
// structural markers. Extraction is read-only with respect to raw.
func Extract(raw []byte, format types.Format) (string, error) {
	switch format {
	case types.FormatPDF:
		return extractPDF(raw)
	case types.FormatTXT:
		return extractTXT(raw)
	case types.FormatDOCX:
		return extractDOCX(raw)
	default:
		return "", &UnsupportedFormatError{Format: string(format)}
	}
}

// Document extracts doc.RawBytes according to doc.Format and populates
// ExtractedText. A failure leaves the document untouched.
func Document(doc *types.SourceDocument) error {
	text, err := Extract(doc.RawBytes, doc.Format)
	if err != nil {
		return err
	}
	doc.ExtractedText = text
	return nil
}
