package types

// Status is the terminal outcome of a generation call.
type Status string

const (
	// StatusSuccess means the model returned acceptable Markdown
	StatusSuccess Status = "success"
	// StatusFallback means full generation failed and a degraded result was substituted
	StatusFallback Status = "fallback"
	// StatusFailed means no usable result was produced
	StatusFailed Status = "failed"
)

// Usage reports token accounting from the provider, when available.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// AssembledPrompt is the bounded "3+1" prompt produced by the assembler.
// It is immutable once built and consumed exactly once by the generator.
type AssembledPrompt struct {
	SystemSection      string `json:"system_section"`
	ContextSection     string `json:"context_section"`
	ExemplarSection    string `json:"exemplar_section"`
	InstructionSection string `json:"instruction_section"`
	TotalLength        int    `json:"total_length"`
	Truncated          bool   `json:"truncated"`
}

// UserText joins the non-system sections in their fixed order into the
// user-role message sent to the model.
func (p *AssembledPrompt) UserText() string {
	out := p.ContextSection
	if p.ExemplarSection != "" {
		if out != "" {
			out += "\n\n"
		}
		out += p.ExemplarSection
	}
	if p.InstructionSection != "" {
		if out != "" {
			out += "\n\n"
		}
		out += p.InstructionSection
	}
	return out
}

// GenerationResult is the terminal outcome of one generation request.
type GenerationResult struct {
	Markdown     string `json:"markdown"`
	Status       Status `json:"status"`
	Attempts     int    `json:"attempts"`
	ModelName    string `json:"model_name,omitempty"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        Usage  `json:"usage,omitempty"`
	Err          error  `json:"-"`
	ErrMessage   string `json:"error,omitempty"`
}
