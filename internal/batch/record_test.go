package batch

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"
)

func TestRecordStore_RoundTrip(t *testing.T) {
	store := NewRecordStore(t.TempDir())

	if store.Exists() {
		t.Fatal("record should not exist initially")
	}

	record := &JobRecord{
		BatchID:     "batch-1",
		InputFileID: "file-1",
		CreatedAt:   time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Status:      StatusSubmitted,
		Metadata: Metadata{
			"A.pdf": {Pages: map[string]PageMeta{"1": {Status: PageStatusQueued}}},
		},
	}
	if err := store.Save(record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !store.Exists() {
		t.Fatal("record should exist after save")
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.BatchID != "batch-1" || loaded.InputFileID != "file-1" {
		t.Errorf("unexpected record: %+v", loaded)
	}
	if !loaded.CreatedAt.Equal(record.CreatedAt) {
		t.Errorf("created_at mismatch: %v vs %v", loaded.CreatedAt, record.CreatedAt)
	}
	if loaded.Metadata["A.pdf"].Pages["1"].Status != PageStatusQueued {
		t.Errorf("metadata skeleton not preserved: %+v", loaded.Metadata)
	}

	if err := store.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if store.Exists() {
		t.Fatal("record should not exist after delete")
	}
}

func TestRecordStore_CreatedAtISO8601(t *testing.T) {
	store := NewRecordStore(t.TempDir())
	record := &JobRecord{
		BatchID:   "batch-1",
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Status:    StatusSubmitted,
	}
	if err := store.Save(record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw["created_at"]), "2026-03-14T09:26:53Z") {
		t.Errorf("created_at not ISO-8601: %s", raw["created_at"])
	}
}

func TestStatusHelpers(t *testing.T) {
	for _, s := range []Status{StatusSubmitted, StatusValidating, StatusQueued, StatusInProgress, StatusFinalizing} {
		if !s.InFlight() {
			t.Errorf("%s should be in flight", s)
		}
	}
	for _, s := range []Status{StatusNotFound, StatusError, StatusCompleted, StatusCompletedAndProcessed, StatusFailed, StatusExpired} {
		if s.InFlight() {
			t.Errorf("%s should not be in flight", s)
		}
	}
	if !StatusCompletedAndProcessed.Processed() || StatusCompleted.Processed() {
		t.Error("Processed() must be true only for completed_and_processed")
	}
}
