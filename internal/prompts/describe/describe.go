// Package describe holds the prompts for the image/table description stage.
package describe

import _ "embed"

//go:embed image.tmpl
var imagePrompt string

//go:embed table.tmpl
var tablePrompt string

// ImagePrompt returns the prompt sent with an extracted report image.
func ImagePrompt() string {
	return imagePrompt
}

// TablePrompt returns the prompt prefix for an extracted HTML table.
func TablePrompt() string {
	return tablePrompt
}
