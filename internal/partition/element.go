// Package partition models the output of the external document-partitioning
// service: per-page lists of layout elements extracted from a PDF, optionally
// enriched with image/table descriptions by a later stage.
package partition

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Element categories produced by the partitioning service.
const (
	CategoryImage = "Image"
	CategoryTable = "Table"
	CategoryText  = "NarrativeText"
	CategoryTitle = "Title"
)

// Element is one layout element on a page.
type Element struct {
	Category string `json:"category"`
	Content  string `json:"content"`

	// Raw payloads carried only for Image/Table elements.
	ImageBase64 string `json:"image_base64,omitempty"`
	TextAsHTML  string `json:"text_as_html,omitempty"`

	// Descriptions filled in by the content-description stage.
	VisionAnalysis string `json:"vision_analysis,omitempty"`
	TableAnalysis  string `json:"table_analysis,omitempty"`
}

// Pages maps a page identifier to its ordered element list.
type Pages map[string][]Element

// Corpus maps a document name to its pages.
type Corpus map[string]Pages

// LoadPages reads a per-document partition artifact.
func LoadPages(path string) (Pages, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read partition artifact %s: %w", path, err)
	}
	var pages Pages
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("failed to parse partition artifact %s: %w", path, err)
	}
	return pages, nil
}

// SavePages writes a per-document partition artifact as a whole-file overwrite.
func SavePages(path string, pages Pages) error {
	data, err := json.MarshalIndent(pages, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize partition artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write partition artifact %s: %w", path, err)
	}
	return nil
}

// LoadCorpus reads the combined corpus artifact.
func LoadCorpus(path string) (Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus %s: %w", path, err)
	}
	var corpus Corpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("failed to parse corpus %s: %w", path, err)
	}
	return corpus, nil
}

// SaveCorpus writes the combined corpus artifact.
func SaveCorpus(path string, corpus Corpus) error {
	data, err := json.MarshalIndent(corpus, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize corpus: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write corpus %s: %w", path, err)
	}
	return nil
}

// SortedPageIDs returns page identifiers in numeric order where possible,
// falling back to lexical order for non-numeric identifiers.
func (p Pages) SortedPageIDs() []string {
	ids := make([]string, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		var ai, bi int
		_, errA := fmt.Sscanf(a, "%d", &ai)
		_, errB := fmt.Sscanf(b, "%d", &bi)
		if errA == nil && errB == nil {
			if ai != bi {
				return ai < bi
			}
		}
		return a < b
	})
	return ids
}

// SortedDocuments returns document names in lexical order.
func (c Corpus) SortedDocuments() []string {
	docs := make([]string, 0, len(c))
	for doc := range c {
		docs = append(docs, doc)
	}
	sort.Strings(docs)
	return docs
}

// OCRArtifactName returns the per-document partition artifact file name.
func OCRArtifactName(document string) string {
	return stem(document) + "_ocr.json"
}

// AnalyzedArtifactName returns the per-document analyzed artifact file name.
func AnalyzedArtifactName(document string) string {
	return stem(document) + "_analyzed.json"
}

func stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
