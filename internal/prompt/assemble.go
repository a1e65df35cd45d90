package prompt

import (
	"fmt"
	"strings"

	"github.com/inspiredoc/inspiredoc/internal/types"
)

// systemPrompt frames the model's task: analyse the transformation from
// old source to exemplar, apply it to the new source, answer in Markdown
// only.
const systemPrompt = `You are a document generation assistant working with the 3+1 architecture. Your task is to analyse a transformation (Old Source Document -> Exemplar Document) and apply that same transformation to a new source document.

Method:
1. ANALYSE how the Old Source was transformed into the Exemplar.
2. IDENTIFY the transformation patterns: style, structure, tone, format.
3. APPLY those same patterns to the New Source content.
4. GENERATE a single coherent document following the identified transformation.

Rules:
- Follow the observed transformation pattern faithfully.
- Return well-structured Markdown and nothing else: no preamble, no explanation.
- Preserve headings, lists, and tables where the exemplar uses them.
- Incorporate the user instructions when provided.`

// truncationMarker is appended to any section that was cut to fit its cap.
const truncationMarker = "\n[...truncated...]"

// Budget holds the per-section soft caps and the overall window,
// all in characters. The zero value for a cap means unbounded;
// WindowMax <= 0 means no combined limit.
type Budget struct {
	ContextMax     int
	ExemplarMax    int
	InstructionMax int
	WindowMax      int
}

// DefaultBudget matches the original service's 8000-character context
// window, split so the instruction section keeps the most room.
func DefaultBudget() Budget {
	return Budget{
		ContextMax:     2400,
		ExemplarMax:    1600,
		InstructionMax: 2400,
		WindowMax:      8000,
	}
}

// Assemble builds the deterministic "3+1" prompt from a validated request.
// Section order is fixed: system, context (old sources), exemplars,
// instruction (new sources then user instruction). Each section is
// truncated from the end so the earliest, most structurally significant
// content survives.
func Assemble(req *types.GenerationRequest, budget Budget) (*types.AssembledPrompt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	context := buildDocumentSection("Source", "Reference documents (the originals the exemplar was derived from):", req.Sources)
	exemplar := buildDocumentSection("Exemplar", "Exemplar documents (mimic this structure and style, not this content):", req.Exemplars)
	instruction := buildInstructionSection(req.NewSources, req.UserInstruction)

	truncated := false
	context, cut := truncateSection(context, budget.ContextMax)
	truncated = truncated || cut
	exemplar, cut = truncateSection(exemplar, budget.ExemplarMax)
	truncated = truncated || cut
	instruction, cut = truncateSection(instruction, budget.InstructionMax)
	truncated = truncated || cut

	if budget.WindowMax > 0 {
		// The system section and the instruction section are the
		// irreducible minimum: without them there is nothing to generate.
		required := len(systemPrompt) + minimumInstructionLength(instruction)
		if required > budget.WindowMax {
			return nil, &PromptTooLargeError{Required: required, Window: budget.WindowMax}
		}

		// Shrink optional sections further if the combined prompt still
		// exceeds the window: exemplar first, then context, then the tail
		// of the instruction section itself.
		for _, shrink := range []*string{&exemplar, &context, &instruction} {
			excess := totalLength(systemPrompt, context, exemplar, instruction) - budget.WindowMax
			if excess <= 0 {
				break
			}
			if len(*shrink) == 0 {
				continue
			}
			keep := len(*shrink) - excess
			if keep <= 0 {
				*shrink = ""
			} else {
				*shrink, _ = truncateSection(*shrink, keep)
			}
			truncated = true
		}
	}

	p := &types.AssembledPrompt{
		SystemSection:      systemPrompt,
		ContextSection:     context,
		ExemplarSection:    exemplar,
		InstructionSection: instruction,
		Truncated:          truncated,
	}
	p.TotalLength = totalLength(systemPrompt, context, exemplar, instruction)
	return p, nil
}

// buildDocumentSection concatenates documents under a section banner, each
// prefixed with a stable label in upload order.
func buildDocumentSection(label, banner string, docs []*types.SourceDocument) string {
	if len(docs) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(banner)
	for i, doc := range docs {
		sb.WriteString(fmt.Sprintf("\n\n### %s %d (%s):\n", label, i+1, doc.Label()))
		sb.WriteString(doc.NormalizedText)
	}
	return sb.String()
}

// buildInstructionSection places new-source content before the free-text
// instruction, in that fixed order: the new content grounds the instruction.
func buildInstructionSection(newSources []*types.SourceDocument, userInstruction string) string {
	var sb strings.Builder
	if len(newSources) > 0 {
		sb.WriteString(buildDocumentSection("New Source", "New source documents (the content to transform):", newSources))
	}
	if trimmed := strings.TrimSpace(userInstruction); trimmed != "" {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("### User instructions:\n")
		sb.WriteString(trimmed)
	}
	if sb.Len() > 0 {
		sb.WriteString("\n\n### Requested generation:\nApply the transformation observed between the old sources and the exemplars to the new source content above, and return the resulting document as Markdown.")
	}
	return sb.String()
}

// truncateSection cuts a section to max characters from the end, keeping
// the earliest content, and reports whether a cut happened. A max <= 0
// means unbounded.
func truncateSection(s string, max int) (string, bool) {
	if max <= 0 || len(s) <= max {
		return s, false
	}
	// The marker counts against the cap, so the result never exceeds max.
	keep := max - len(truncationMarker)
	if keep <= 0 {
		// A cap smaller than the marker gets a bare cut.
		return cutAtRuneBoundary(s, max), true
	}
	return cutAtRuneBoundary(s, keep) + truncationMarker, true
}

// cutAtRuneBoundary returns at most n leading bytes of s without
// splitting a rune.
func cutAtRuneBoundary(s string, n int) string {
	cut := s[:n]
	for len(cut) > 0 && !utf8RuneStart(s[len(cut)]) {
		cut = cut[:len(cut)-1]
	}
	return cut
}

func utf8RuneStart(b byte) bool { return b&0xC0 != 0x80 }

// minimumInstructionLength is the irreducible size of the instruction
// section: a request with no instruction content still has length zero.
func minimumInstructionLength(instruction string) int {
	const floor = 200
	if instruction == "" {
		return 0
	}
	if len(instruction) < floor {
		return len(instruction)
	}
	return floor
}

func totalLength(sections ...string) int {
	total := 0
	for _, s := range sections {
		total += len(s)
	}
	return total
}
