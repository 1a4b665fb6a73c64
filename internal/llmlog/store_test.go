package llmlog

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "llm_calls.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()

	call := NewCall("describe.image", "gpt-4o-mini")
	call.Document = "A.pdf"
	call.PageID = "3"
	call.Finish(time.Now().Add(-50*time.Millisecond), `{"type":"chart"}`, nil)

	if err := store.Record(ctx, call); err != nil {
		t.Fatalf("failed to record call: %v", err)
	}

	calls, err := store.List(ctx, QueryFilter{Document: "A.pdf"})
	if err != nil {
		t.Fatalf("failed to list calls: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}

	got := calls[0]
	if got.ID != call.ID {
		t.Errorf("id mismatch: %s != %s", got.ID, call.ID)
	}
	if got.PromptKey != "describe.image" {
		t.Errorf("unexpected prompt key %s", got.PromptKey)
	}
	if !got.Success {
		t.Error("expected success")
	}
	if got.LatencyMs < 50 {
		t.Errorf("expected latency >= 50ms, got %d", got.LatencyMs)
	}
}

func TestStore_ListFilters(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()

	ok := NewCall("describe.table", "gpt-4o-mini")
	ok.Finish(time.Now(), "fine", nil)
	failed := NewCall("describe.image", "gpt-4o-mini")
	failed.Finish(time.Now(), "", errTest)

	for _, c := range []*Call{ok, failed} {
		if err := store.Record(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	success := true
	calls, err := store.List(ctx, QueryFilter{Success: &success})
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != 1 || calls[0].PromptKey != "describe.table" {
		t.Errorf("unexpected filtered calls: %+v", calls)
	}

	fail := false
	calls, err = store.List(ctx, QueryFilter{Success: &fail})
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != 1 || calls[0].Error == "" {
		t.Errorf("expected one failed call with error, got %+v", calls)
	}
}

func TestStore_CountByPromptKey(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()

	for _, key := range []string{"describe.image", "describe.image", "answer.qa"} {
		call := NewCall(key, "gpt-4o-mini")
		call.Finish(time.Now(), "ok", nil)
		if err := store.Record(ctx, call); err != nil {
			t.Fatal(err)
		}
	}

	counts, err := store.CountByPromptKey(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts["describe.image"] != 2 || counts["answer.qa"] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}
