package extract

import (
	"encoding/json"
	"testing"

	"github.com/aangers/ragmeta/internal/taxonomy"
)

const layoffJSON = `{
	"type": "layoff",
	"entity": {"documents": [
		{"page": 4, "title": "Restructuring programme", "currency": "EUR",
		 "data": [{"key": "affected_employees", "value": "1200"}]}
	]}
}`

func TestParse(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		extraction, err := Parse(layoffJSON)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if extraction.Type != taxonomy.Layoff {
			t.Errorf("unexpected type %s", extraction.Type)
		}
		docs := extraction.Entity.Documents
		if len(docs) != 1 || docs[0].Page != 4 || docs[0].Currency != "EUR" {
			t.Errorf("unexpected documents: %+v", docs)
		}
	})

	t.Run("fenced json", func(t *testing.T) {
		extraction, err := Parse("```json\n" + layoffJSON + "\n```")
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if extraction.Type != taxonomy.Layoff {
			t.Errorf("unexpected type %s", extraction.Type)
		}
	})

	t.Run("json wrapped in prose", func(t *testing.T) {
		extraction, err := Parse("Here is the result:\n" + layoffJSON + "\nLet me know if you need more.")
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if extraction.Type != taxonomy.Layoff {
			t.Errorf("unexpected type %s", extraction.Type)
		}
	})

	t.Run("empty page", func(t *testing.T) {
		extraction, err := Parse(`{"type": "empty"}`)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if !extraction.Empty() {
			t.Error("expected empty extraction")
		}
	})

	t.Run("empty content", func(t *testing.T) {
		if _, err := Parse("   "); err == nil {
			t.Error("expected error for empty content")
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		if _, err := Parse(`{"type": "weather_forecast"}`); err == nil {
			t.Error("expected error for unknown category")
		}
	})

	t.Run("schema violation", func(t *testing.T) {
		if _, err := Parse(`{"type": 42}`); err == nil {
			t.Error("expected error for non-string type")
		}
	})

	t.Run("not json at all", func(t *testing.T) {
		if _, err := Parse("the page discusses layoffs"); err == nil {
			t.Error("expected error for prose-only content")
		}
	})
}

func envelope(t *testing.T, statusCode int, content string) json.RawMessage {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"status_code": statusCode,
		"body": map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return payload
}

func TestFromBatchResponse(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		extraction, err := FromBatchResponse(envelope(t, 200, layoffJSON))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if extraction.Type != taxonomy.Layoff {
			t.Errorf("unexpected type %s", extraction.Type)
		}
	})

	t.Run("non-200 status", func(t *testing.T) {
		if _, err := FromBatchResponse(envelope(t, 429, "")); err == nil {
			t.Error("expected error for failed request")
		}
	})

	t.Run("no choices", func(t *testing.T) {
		if _, err := FromBatchResponse(json.RawMessage(`{"status_code": 200, "body": {"choices": []}}`)); err == nil {
			t.Error("expected error for missing choices")
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		if _, err := FromBatchResponse(nil); err == nil {
			t.Error("expected error for empty payload")
		}
	})
}
