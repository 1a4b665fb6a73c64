package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// JobRecord is the durable on-disk record of one outstanding batch job. It is
// the single source of truth for whether a job is in flight. The submitter
// creates it, the reconciler refreshes and eventually deletes it; the driver
// only ever deletes it when abandoning a failed job.
type JobRecord struct {
	BatchID     string    `json:"batch_id"`
	InputFileID string    `json:"input_file_id"`
	CreatedAt   time.Time `json:"created_at"`
	Status      Status    `json:"status"`
	Metadata    Metadata  `json:"metadata"`
}

// RecordStore persists the job record in a state directory. The design
// assumes a single writer per state directory; there is no file locking.
type RecordStore struct {
	stateDir string
}

// NewRecordStore creates a store rooted at stateDir.
func NewRecordStore(stateDir string) *RecordStore {
	return &RecordStore{stateDir: stateDir}
}

// Path returns the job record file path.
func (s *RecordStore) Path() string {
	return filepath.Join(s.stateDir, "batch_info.json")
}

// Exists reports whether a job record is present.
func (s *RecordStore) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

// Load reads the job record from disk.
func (s *RecordStore) Load() (*JobRecord, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to read job record: %w", err)
	}
	var record JobRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse job record: %w", err)
	}
	return &record, nil
}

// Save writes the job record as a whole-file overwrite.
func (s *RecordStore) Save(record *JobRecord) error {
	if err := os.MkdirAll(s.stateDir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize job record: %w", err)
	}
	if err := os.WriteFile(s.Path(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write job record: %w", err)
	}
	return nil
}

// Delete removes the job record.
func (s *RecordStore) Delete() error {
	if err := os.Remove(s.Path()); err != nil {
		return fmt.Errorf("failed to delete job record: %w", err)
	}
	return nil
}
