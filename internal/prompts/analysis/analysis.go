// Package analysis holds the prompt for routing challenge questions onto
// metadata categories.
package analysis

import _ "embed"

//go:embed system.tmpl
var systemPrompt string

// SystemPrompt returns the question-analysis system prompt.
func SystemPrompt() string {
	return systemPrompt
}
