// Package extract decodes the model's page-classification output into typed
// metadata records.
package extract

import (
	"encoding/json"
	"fmt"

	"github.com/aangers/ragmeta/internal/taxonomy"
)

// DataPoint is one extracted key/value pair of evidence.
type DataPoint struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Document is one evidence block extracted from a page.
type Document struct {
	Page     int         `json:"page"`
	Title    string      `json:"title"`
	Currency string      `json:"currency,omitempty"`
	Data     []DataPoint `json:"data,omitempty"`
}

// Entity groups the evidence blocks supporting a classification.
type Entity struct {
	Documents []Document `json:"documents"`
}

// Extraction is the typed form of one page's classification result.
type Extraction struct {
	Type   taxonomy.Category `json:"type"`
	Entity Entity            `json:"entity"`
}

// Empty reports whether the extraction carries no business event.
func (e *Extraction) Empty() bool {
	return e == nil || e.Type == taxonomy.Empty || e.Type == ""
}

// responseEnvelope is the per-request wrapper a batch result line carries.
type responseEnvelope struct {
	StatusCode int `json:"status_code"`
	Body       struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"body"`
}

// FromBatchResponse pulls the model content out of a raw batch response
// payload and parses it into an Extraction.
func FromBatchResponse(raw json.RawMessage) (*Extraction, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty batch response payload")
	}

	var envelope responseEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode batch response envelope: %w", err)
	}
	if envelope.StatusCode != 0 && envelope.StatusCode != 200 {
		return nil, fmt.Errorf("batch request returned status %d", envelope.StatusCode)
	}
	if len(envelope.Body.Choices) == 0 {
		return nil, fmt.Errorf("batch response carries no choices")
	}

	return Parse(envelope.Body.Choices[0].Message.Content)
}

// Parse parses model output into an Extraction, recovering from markdown
// fences and surrounding prose, and validates it against the output schema.
func Parse(content string) (*Extraction, error) {
	normalized, err := parseModelJSON(content)
	if err != nil {
		return nil, err
	}

	if err := validateAgainstSchema(normalized); err != nil {
		return nil, err
	}

	var extraction Extraction
	if err := json.Unmarshal(normalized, &extraction); err != nil {
		return nil, fmt.Errorf("failed to decode extraction: %w", err)
	}
	if extraction.Type != taxonomy.Empty && !taxonomy.Valid(extraction.Type) {
		return nil, fmt.Errorf("unknown category %q", extraction.Type)
	}
	return &extraction, nil
}
