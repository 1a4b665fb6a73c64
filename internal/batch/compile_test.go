package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aangers/ragmeta/internal/partition"
)

func testCorpus() partition.Corpus {
	return partition.Corpus{
		"A.pdf": {
			"1": {{Category: partition.CategoryText, Content: "text1"}},
		},
		"B.pdf": {
			"1": {{Category: partition.CategoryText, Content: "text2"}},
			"2": {{Category: partition.CategoryText, Content: "text3"}},
		},
	}
}

func TestCompiler_Compile(t *testing.T) {
	staging := filepath.Join(t.TempDir(), "batch_requests.jsonl")
	compiler := &Compiler{SystemPrompt: "classify", Model: "gpt-4o-mini"}

	metadata, count, err := compiler.Compile(testCorpus(), staging)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 request lines, got %d", count)
	}

	data, err := os.ReadFile(staging)
	if err != nil {
		t.Fatalf("failed to read staging file: %v", err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines in staging file, got %d", len(lines))
	}

	wantIDs := map[string]bool{
		"A.pdf__page-1": false,
		"B.pdf__page-1": false,
		"B.pdf__page-2": false,
	}
	for _, line := range lines {
		var req Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			t.Fatalf("malformed request line %q: %v", line, err)
		}
		seen, ok := wantIDs[req.CustomID]
		if !ok {
			t.Errorf("unexpected custom id %s", req.CustomID)
			continue
		}
		if seen {
			t.Errorf("duplicate custom id %s", req.CustomID)
		}
		wantIDs[req.CustomID] = true

		if req.Body.Model != "gpt-4o-mini" {
			t.Errorf("expected model gpt-4o-mini, got %s", req.Body.Model)
		}
		if len(req.Body.Messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(req.Body.Messages))
		}
		if req.Body.Messages[0].Role != "system" || req.Body.Messages[0].Content != "classify" {
			t.Errorf("unexpected system message: %+v", req.Body.Messages[0])
		}
		if req.Body.Messages[1].Role != "user" {
			t.Errorf("expected user message, got %s", req.Body.Messages[1].Role)
		}
		if req.Body.MaxCompletionTokens != DefaultMaxCompletionTokens {
			t.Errorf("expected %d max tokens, got %d", DefaultMaxCompletionTokens, req.Body.MaxCompletionTokens)
		}
	}
	for id, seen := range wantIDs {
		if !seen {
			t.Errorf("missing custom id %s", id)
		}
	}

	if len(metadata) != 2 {
		t.Fatalf("expected metadata for 2 documents, got %d", len(metadata))
	}
	if got := metadata["B.pdf"].Pages["2"].Status; got != PageStatusQueued {
		t.Errorf("expected queued page status, got %s", got)
	}
}

func TestCompiler_EmptyCorpus(t *testing.T) {
	staging := filepath.Join(t.TempDir(), "batch_requests.jsonl")
	compiler := &Compiler{SystemPrompt: "classify", Model: "gpt-4o-mini"}

	metadata, count, err := compiler.Compile(partition.Corpus{}, staging)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if count != 0 {
		t.Errorf("expected zero lines, got %d", count)
	}
	if len(metadata) != 0 {
		t.Errorf("expected empty metadata, got %v", metadata)
	}
	if _, err := os.Stat(staging); err != nil {
		t.Errorf("staging file should exist even when empty: %v", err)
	}
}

func TestCompiler_RejectsSeparatorInDocumentName(t *testing.T) {
	staging := filepath.Join(t.TempDir(), "batch_requests.jsonl")
	compiler := &Compiler{SystemPrompt: "classify", Model: "gpt-4o-mini"}

	corpus := partition.Corpus{
		"bad__doc.pdf": {"1": {{Category: partition.CategoryText, Content: "x"}}},
	}
	if _, _, err := compiler.Compile(corpus, staging); err == nil {
		t.Fatal("expected compile error for document name containing reserved separator")
	}
}
