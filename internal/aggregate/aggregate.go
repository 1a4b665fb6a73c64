// Package aggregate folds per-page extraction results into per-document
// records shaped after the dataset manifest.
package aggregate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/aangers/ragmeta/internal/extract"
	"github.com/aangers/ragmeta/internal/home"
	"github.com/aangers/ragmeta/internal/taxonomy"
)

// Element is one extracted evidence block carried into the aggregate.
type Element struct {
	Type     taxonomy.Category   `json:"type"`
	Page     int                 `json:"page"`
	Title    string              `json:"title"`
	Data     []extract.DataPoint `json:"data"`
	Currency string              `json:"currency,omitempty"`
}

// FindTarget locates the manifest record for a document, by key, sha1, or
// company-name substring, in that order.
func FindTarget(dataset map[string]json.RawMessage, pdfName, sha1 string) (map[string]any, bool) {
	if raw, ok := dataset[pdfName]; ok {
		return decodeRecord(raw)
	}

	stem := strings.ToLower(home.Stem(pdfName))
	for _, raw := range dataset {
		record, ok := decodeRecord(raw)
		if !ok {
			continue
		}
		if sha1 != "" && record["sha1"] == sha1 {
			return record, true
		}
		if company := companyName(record); company != "" && strings.Contains(strings.ToLower(company), stem) {
			return record, true
		}
	}
	return nil, false
}

func decodeRecord(raw json.RawMessage) (map[string]any, bool) {
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, false
	}
	return record, true
}

func companyName(record map[string]any) string {
	if meta, ok := record["meta"].(map[string]any); ok {
		if name, ok := meta["company_name"].(string); ok && name != "" {
			return name
		}
	}
	name, _ := record["company_name"].(string)
	return name
}

// EmptyTemplate copies the target record with every aggregated flag reset.
// Identity fields of the manifest meta survive the reset.
func EmptyTemplate(target map[string]any) map[string]any {
	template := deepCopy(target)

	meta := make(map[string]any, len(taxonomy.Fields())+3)
	if src, ok := template["meta"].(map[string]any); ok {
		for _, key := range []string{"end_of_period", "company_name", "major_industry"} {
			if v, ok := src[key]; ok {
				meta[key] = v
			}
		}
	}
	for _, field := range taxonomy.Fields() {
		meta[field] = false
	}
	template["meta"] = meta
	return template
}

func deepCopy(m map[string]any) map[string]any {
	data, err := json.Marshal(m)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{}
	}
	return out
}

// GroupByType parses per-page batch payloads and groups the extracted
// evidence by category. Unparseable pages are logged and skipped.
func GroupByType(results map[string]json.RawMessage, logger *slog.Logger) map[taxonomy.Category][]Element {
	if logger == nil {
		logger = slog.Default()
	}

	grouped := make(map[taxonomy.Category][]Element)
	for page, payload := range results {
		extraction, err := extract.FromBatchResponse(payload)
		if err != nil {
			logger.Warn("skipping unparseable page result", "page", page, "error", err)
			continue
		}
		if extraction.Empty() {
			continue
		}
		for _, doc := range extraction.Entity.Documents {
			grouped[extraction.Type] = append(grouped[extraction.Type], Element{
				Type:     extraction.Type,
				Page:     doc.Page,
				Title:    doc.Title,
				Data:     doc.Data,
				Currency: doc.Currency,
			})
		}
	}
	return grouped
}

// AggregateDocument builds the aggregated record for one document from its
// page results and manifest target.
func AggregateDocument(target map[string]any, results map[string]json.RawMessage, logger *slog.Logger) map[string]any {
	record := EmptyTemplate(target)
	meta := record["meta"].(map[string]any)

	grouped := GroupByType(results, logger)
	var elements []Element
	for _, category := range taxonomy.Categories() {
		group, ok := grouped[category]
		if !ok {
			continue
		}
		if field, ok := taxonomy.FieldFor(category); ok {
			meta[field] = true
		}
		elements = append(elements, group...)
	}
	if len(elements) > 0 {
		record["extracted_elements"] = elements
	}
	return record
}

// Reorganize converts an aggregated record into its final shape, grouping
// the extracted elements under the field each category maps to.
func Reorganize(record map[string]any) map[string]any {
	srcMeta, _ := record["meta"].(map[string]any)

	meta := map[string]any{
		"end_of_period":  srcMeta["end_of_period"],
		"company_name":   srcMeta["company_name"],
		"major_industry": srcMeta["major_industry"],
	}
	for _, field := range taxonomy.Fields() {
		value, _ := srcMeta[field].(bool)
		meta[field] = map[string]any{"value": value, "elements": []Element{}}
	}

	for _, element := range recordElements(record) {
		field, ok := taxonomy.FieldFor(element.Type)
		if !ok {
			continue
		}
		slot := meta[field].(map[string]any)
		slot["elements"] = append(slot["elements"].([]Element), element)
	}

	for _, field := range taxonomy.Fields() {
		slot := meta[field].(map[string]any)
		elements := slot["elements"].([]Element)
		sort.SliceStable(elements, func(i, j int) bool { return elements[i].Page < elements[j].Page })
		slot["elements"] = elements
	}

	return map[string]any{
		"letters":  record["letters"],
		"pages":    record["pages"],
		"meta":     meta,
		"currency": record["currency"],
		"sha1":     record["sha1"],
	}
}

// recordElements reads extracted_elements regardless of whether the record
// came straight from AggregateDocument or through a JSON round trip.
func recordElements(record map[string]any) []Element {
	switch v := record["extracted_elements"].(type) {
	case []Element:
		return v
	case []any:
		data, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		var elements []Element
		if err := json.Unmarshal(data, &elements); err != nil {
			return nil
		}
		return elements
	default:
		return nil
	}
}

// decodePageResults loads a <stem>_metadata.json artifact.
func decodePageResults(data []byte) (map[string]json.RawMessage, error) {
	var results map[string]json.RawMessage
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse metadata artifact: %w", err)
	}
	return results, nil
}
