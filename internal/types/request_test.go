package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationRequest_Validate_Empty(t *testing.T) {
	req := &GenerationRequest{Params: DefaultGenerationParams()}
	err := req.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyRequest)
}

func TestGenerationRequest_Validate_WhitespaceInstructionIsEmpty(t *testing.T) {
	req := &GenerationRequest{UserInstruction: "   \n\t ", Params: DefaultGenerationParams()}

	assert.ErrorIs(t, req.Validate(), ErrEmptyRequest)
}

func TestGenerationRequest_Validate_InstructionOnly(t *testing.T) {
	req := &GenerationRequest{UserInstruction: "write a summary", Params: DefaultGenerationParams()}

	assert.NoError(t, req.Validate())
}

func TestGenerationRequest_Validate_SingleDocument(t *testing.T) {
	doc := NewSourceDocument(RoleNewSource, FormatTXT, "notes.txt", []byte("hello"))
	req := &GenerationRequest{NewSources: []*SourceDocument{doc}, Params: DefaultGenerationParams()}

	assert.NoError(t, req.Validate())
}

func TestGenerationParams_Validate_TemperatureRange(t *testing.T) {
	ok := GenerationParams{Temperature: 2.0, MaxTokens: 100}
	assert.NoError(t, ok.Validate())

	tooHot := GenerationParams{Temperature: 2.1, MaxTokens: 100}
	assert.Error(t, tooHot.Validate())

	negative := GenerationParams{Temperature: -0.1, MaxTokens: 100}
	assert.Error(t, negative.Validate())
}

func TestGenerationParams_Validate_MaxTokens(t *testing.T) {
	zero := GenerationParams{Temperature: 0.3, MaxTokens: 0}
	assert.Error(t, zero.Validate())
}

func TestGenerationRequest_Documents_Order(t *testing.T) {
	old := NewSourceDocument(RoleOldSource, FormatTXT, "old.txt", []byte("a"))
	ex := NewSourceDocument(RoleExemplar, FormatDOCX, "ex.docx", []byte("b"))
	nw := NewSourceDocument(RoleNewSource, FormatTXT, "new.txt", []byte("c"))

	req := &GenerationRequest{
		Sources:    []*SourceDocument{old},
		Exemplars:  []*SourceDocument{ex},
		NewSources: []*SourceDocument{nw},
	}

	docs := req.Documents()
	require.Len(t, docs, 3)
	assert.Equal(t, RoleOldSource, docs[0].Role)
	assert.Equal(t, RoleExemplar, docs[1].Role)
	assert.Equal(t, RoleNewSource, docs[2].Role)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name   string
		raw    []byte
		want   Format
		wantOK bool
	}{
		{"pdf header", []byte("%PDF-1.7 rest"), FormatPDF, true},
		{"zip header", []byte("PK\x03\x04rest"), FormatDOCX, true},
		{"plain text", []byte("just text"), FormatTXT, true},
		{"empty", nil, Format(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectFormat(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarkdownHash_Deterministic(t *testing.T) {
	h1 := MarkdownHash("# Title\n\nbody")
	h2 := MarkdownHash("# Title\n\nbody")
	h3 := MarkdownHash("# Other")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}
