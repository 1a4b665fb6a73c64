// Package qa holds the prompt for answering challenge questions from
// aggregated metadata.
package qa

import _ "embed"

//go:embed system.tmpl
var systemPrompt string

// SystemPrompt returns the question-answering system prompt.
func SystemPrompt() string {
	return systemPrompt
}
