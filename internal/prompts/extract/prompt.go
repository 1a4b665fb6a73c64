// Package extract holds the prompt and output schema for the batch
// page-classification stage.
package extract

import _ "embed"

//go:embed system.tmpl
var systemPrompt string

// SystemPrompt returns the system prompt for batch metadata extraction.
func SystemPrompt() string {
	return systemPrompt
}
