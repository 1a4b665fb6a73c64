package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Submitter uploads a compiled request file and creates exactly one batch job
// per successful call. The caller (Driver) is responsible for ensuring at
// most one job is outstanding; the submitter does not check.
type Submitter struct {
	Service Service
	Records *RecordStore
	Logger  *slog.Logger
}

// Submit uploads the staging file, creates the job, and persists the job
// record with status "submitted". On any failure it logs and returns the
// empty string: no record is ever partially persisted.
func (s *Submitter) Submit(ctx context.Context, stagingPath string, metadata Metadata) string {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("submitting batch job", "file", stagingPath)

	jobID, inputFileID, err := s.submit(ctx, stagingPath, metadata)
	if err != nil {
		logger.Error("batch job submission failed", "error", err)
		return ""
	}
	logger.Info("batch job created", "batch_id", jobID, "input_file_id", inputFileID)
	return jobID
}

func (s *Submitter) submit(ctx context.Context, stagingPath string, metadata Metadata) (jobID, inputFileID string, err error) {
	data, err := os.ReadFile(stagingPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to read request file: %w", err)
	}

	inputFileID, err = s.Service.UploadFile(ctx, filepath.Base(stagingPath), data)
	if err != nil {
		return "", "", err
	}

	now := time.Now().UTC()
	jobID, err = s.Service.CreateJob(ctx, inputFileID, map[string]string{
		"description": "Batch job submitted at " + now.Format(time.RFC3339),
	})
	if err != nil {
		return "", "", err
	}

	record := &JobRecord{
		BatchID:     jobID,
		InputFileID: inputFileID,
		CreatedAt:   now,
		Status:      StatusSubmitted,
		Metadata:    metadata,
	}
	if err := s.Records.Save(record); err != nil {
		// The external job exists but the record could not be written; surface
		// the error so a later run resubmits rather than silently losing it.
		return "", "", err
	}
	return jobID, inputFileID, nil
}
