package batch

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aangers/ragmeta/internal/partition"
)

// Message is one chat message in a batch request body.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RequestBody is the chat-completions payload of one batch line.
type RequestBody struct {
	Model               string    `json:"model"`
	Messages            []Message `json:"messages"`
	MaxCompletionTokens int       `json:"max_completion_tokens"`
}

// Request is one line of the batch request file.
type Request struct {
	CustomID string      `json:"custom_id"`
	Body     RequestBody `json:"body"`
}

// PageMeta tracks per-page submission state in the metadata skeleton.
// The status field is informational only: it is written as "queued" at
// compile time and carried through the job record unchanged.
type PageMeta struct {
	Status string `json:"status"`
}

// DocMeta is the per-document part of the metadata skeleton.
type DocMeta struct {
	Pages map[string]PageMeta `json:"pages"`
}

// Metadata is the batch metadata skeleton: document -> pages -> status.
type Metadata map[string]DocMeta

// PageStatusQueued is the initial page status in the metadata skeleton.
const PageStatusQueued = "queued"

// DefaultMaxCompletionTokens bounds each per-page extraction response.
const DefaultMaxCompletionTokens = 6000

// Compiler turns an analyzed corpus into a line-delimited batch request file
// plus the metadata skeleton. Configuration is explicit; there is no shared
// mutable prompt state.
type Compiler struct {
	SystemPrompt        string
	Model               string
	MaxCompletionTokens int
	Logger              *slog.Logger
}

// Compile writes one request line per (document, page) to stagingPath and
// returns the metadata skeleton and the number of lines written. The line
// count always equals the total page count across all documents.
func (c *Compiler) Compile(corpus partition.Corpus, stagingPath string) (Metadata, int, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxTokens := c.MaxCompletionTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxCompletionTokens
	}

	lines := make([]string, 0)
	metadata := make(Metadata, len(corpus))

	for _, document := range corpus.SortedDocuments() {
		pages := corpus[document]
		contexts := BuildPageContexts(pages)
		docMeta := DocMeta{Pages: make(map[string]PageMeta, len(contexts))}

		for _, page := range pages.SortedPageIDs() {
			customID, err := EncodeCustomID(document, page)
			if err != nil {
				return nil, 0, fmt.Errorf("failed to build correlation id: %w", err)
			}
			req := Request{
				CustomID: customID,
				Body: RequestBody{
					Model: c.Model,
					Messages: []Message{
						{Role: "system", Content: c.SystemPrompt},
						{Role: "user", Content: contexts[page]},
					},
					MaxCompletionTokens: maxTokens,
				},
			}
			line, err := json.Marshal(req)
			if err != nil {
				return nil, 0, fmt.Errorf("failed to serialize request %s: %w", customID, err)
			}
			lines = append(lines, string(line))
			docMeta.Pages[page] = PageMeta{Status: PageStatusQueued}
		}
		metadata[document] = docMeta
	}

	if err := os.WriteFile(stagingPath, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return nil, 0, fmt.Errorf("failed to write batch request file %s: %w", stagingPath, err)
	}
	logger.Info("batch request file created", "path", stagingPath, "requests", len(lines))
	return metadata, len(lines), nil
}
