// Package prompt assembles the bounded "3+1" generation prompt: old
// sources, exemplars, new sources, and the optional user instruction.
package prompt

import "fmt"

// PromptTooLargeError is returned when even the system section plus the
// minimum instruction section cannot fit the configured window. Callers
// must treat this as a configuration or input problem, not a generation
// failure.
type PromptTooLargeError struct {
	Required int
	Window   int
}

func (e *PromptTooLargeError) Error() string {
	return fmt.Sprintf("prompt too large: minimum sections need %d chars, window allows %d", e.Required, e.Window)
}
