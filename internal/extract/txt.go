package extract

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
)

// extractTXT decodes plain-text bytes. The attempt order is bounded and
// fixed: UTF-8, UTF-16 (BOM required), Windows-1252. A decode that yields
// replacement runes or is dominated by control characters is rejected, so
// binary junk surfaces as an EncodingError instead of mojibake.
func extractTXT(raw []byte) (string, error) {
	attempted := []string{"utf-8", "utf-16", "windows-1252"}

	// UTF-8 with optional BOM.
	stripped := bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(stripped) && plausibleText(string(stripped)) {
		return string(stripped), nil
	}

	// UTF-16, big or little endian, only when a BOM announces it.
	if len(raw) >= 2 && (raw[0] == 0xFF && raw[1] == 0xFE || raw[0] == 0xFE && raw[1] == 0xFF) {
		dec := xunicode.UTF16(xunicode.LittleEndian, xunicode.ExpectBOM).NewDecoder()
		if decoded, err := dec.Bytes(raw); err == nil && plausibleText(string(decoded)) {
			return string(decoded), nil
		}
	}

	// Windows-1252 covers latin-1 plus the typographic punctuation range.
	if decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw); err == nil {
		text := string(decoded)
		if plausibleText(text) && !strings.ContainsRune(text, utf8.RuneError) {
			return text, nil
		}
	}

	return "", &EncodingError{Attempted: attempted}
}

// plausibleText rejects decodes dominated by control characters, which is
// what binary input looks like after a lenient charmap decode.
func plausibleText(s string) bool {
	if s == "" {
		return true
	}
	var control, total int
	for _, r := range s {
		total++
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' && r != '\f' {
			control++
		}
	}
	return control*10 < total
}
