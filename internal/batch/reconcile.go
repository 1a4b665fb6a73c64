package batch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Reconciler polls the outstanding batch job and, on completion, downloads
// the results, demultiplexes them back to (document, page), and writes one
// metadata artifact per document. Errors never propagate: every call returns
// a Status and callers branch on it.
type Reconciler struct {
	Service   Service
	Records   *RecordStore
	OutputDir string
	Logger    *slog.Logger
}

// Check runs one step of the reconciliation state machine.
//
// Terminal outcomes: StatusNotFound (no record), StatusCompletedAndProcessed
// (results written, record deleted). StatusError means the check itself
// failed and the record was left untouched. Any other status is the external
// job state, refreshed into the record.
func (r *Reconciler) Check(ctx context.Context) Status {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if !r.Records.Exists() {
		logger.Info("no batch job record found")
		return StatusNotFound
	}

	record, err := r.Records.Load()
	if err != nil {
		logger.Error("failed to load job record", "error", err)
		return StatusError
	}
	if record.BatchID == "" {
		logger.Error("job record has no batch id", "path", r.Records.Path())
		return StatusError
	}

	info, err := r.Service.RetrieveJob(ctx, record.BatchID)
	if err != nil {
		logger.Error("batch status check failed", "batch_id", record.BatchID, "error", err)
		return StatusError
	}
	logger.Info("batch job status", "batch_id", record.BatchID, "status", info.Status)

	record.Status = info.Status
	if err := r.Records.Save(record); err != nil {
		logger.Error("failed to persist refreshed job record", "batch_id", record.BatchID, "error", err)
		return StatusError
	}

	if info.Status != StatusCompleted || info.OutputFileID == "" {
		return info.Status
	}

	logger.Info("batch job completed, downloading results", "batch_id", record.BatchID, "output_file_id", info.OutputFileID)
	if err := r.process(ctx, info.OutputFileID); err != nil {
		logger.Error("failed to process batch results", "batch_id", record.BatchID, "error", err)
		return StatusError
	}

	if err := r.Records.Delete(); err != nil {
		// Artifacts are already on disk; a retry rewrites them identically
		// and deletes the record then.
		logger.Error("failed to delete job record after processing", "error", err)
		return StatusError
	}
	logger.Info("batch job reconciled", "batch_id", record.BatchID)
	return StatusCompletedAndProcessed
}

// process downloads the result file and writes per-document artifacts. All
// results are assembled in memory first; artifact writes are whole-file
// overwrites, so no partial output is ever visible.
func (r *Reconciler) process(ctx context.Context, outputFileID string) error {
	data, err := r.Service.DownloadFile(ctx, outputFileID)
	if err != nil {
		return err
	}

	byDocument := make(map[string]map[string]json.RawMessage)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var result ResultLine
		if err := json.Unmarshal([]byte(line), &result); err != nil {
			return fmt.Errorf("malformed result line: %w", err)
		}
		document, page, err := DecodeCustomID(result.CustomID)
		if err != nil {
			return err
		}
		response := result.Response
		if len(response) == 0 {
			response = json.RawMessage("{}")
		}
		if byDocument[document] == nil {
			byDocument[document] = make(map[string]json.RawMessage)
		}
		byDocument[document][page] = response
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to scan result file: %w", err)
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for document, pages := range byDocument {
		path := filepath.Join(r.OutputDir, artifactName(document))
		payload, err := json.MarshalIndent(pages, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize results for %s: %w", document, err)
		}
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return fmt.Errorf("failed to write results for %s: %w", document, err)
		}
		logger.Info("document results written", "document", document, "path", path, "pages", len(pages))
	}
	return nil
}

// artifactName maps a document name to its metadata artifact file name.
func artifactName(document string) string {
	base := filepath.Base(document)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_metadata.json"
}
