// Package extract converts uploaded PDF, TXT, and DOCX bytes into plain text
// with lightweight structural markers (page breaks, heading levels).
package extract

import "fmt"

// UnsupportedFormatError is returned for formats the extractor has no
// handler for.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %s", e.Format)
}

// CorruptFileError is returned when the bytes do not parse as the declared
// format.
type CorruptFileError struct {
	Format  string
	Message string
	Cause   error
}

func (e *CorruptFileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("corrupt %s file: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("corrupt %s file: %s", e.Format, e.Message)
}

func (e *CorruptFileError) Unwrap() error {
	return e.Cause
}

// EncodingError is returned when text bytes cannot be decoded after the
// bounded set of encoding attempts.
type EncodingError struct {
	Attempted []string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("undecodable text: tried encodings %v", e.Attempted)
}
