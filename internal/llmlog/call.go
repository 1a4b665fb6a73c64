// Package llmlog records synchronous LLM API calls for traceability. Every
// call made outside the batch pipeline is written with its prompt key,
// response, and timing.
package llmlog

import (
	"time"

	"github.com/google/uuid"
)

// Call represents one recorded LLM API call.
type Call struct {
	// Unique identifier
	ID string `json:"id"`

	// Timing
	Timestamp time.Time `json:"timestamp"`
	LatencyMs int       `json:"latency_ms"`

	// Context references
	Document string `json:"document,omitempty"`
	PageID   string `json:"page_id,omitempty"`

	// Prompt traceability
	PromptKey string `json:"prompt_key"`

	// Model info
	Model string `json:"model"`

	// Response
	Response string `json:"response"`

	// Status
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NewCall constructs a Call with a fresh id and the current timestamp.
func NewCall(promptKey, model string) *Call {
	return &Call{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		PromptKey: promptKey,
		Model:     model,
	}
}

// Finish fills in the outcome fields from a completed request.
func (c *Call) Finish(started time.Time, response string, err error) *Call {
	c.LatencyMs = int(time.Since(started).Milliseconds())
	c.Response = response
	c.Success = err == nil
	if err != nil {
		c.Error = err.Error()
	}
	return c
}
