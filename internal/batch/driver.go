package batch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aangers/ragmeta/internal/partition"
)

// Driver decides, once per invocation, whether to check an outstanding job,
// submit a new one, or do nothing. At most one job is outstanding at a time;
// the durable job record enforces this across process restarts.
type Driver struct {
	Service     Service
	Records     *RecordStore
	Compiler    *Compiler
	OutputDir   string
	StagingPath string
	Logger      *slog.Logger
}

// Run executes one driver pass over the candidate corpus.
//
// Returned statuses: the reconciliation outcome when a job was outstanding
// and is not yet ready to replace; StatusNotFound when there was nothing to
// submit; StatusSubmitted on successful submission; StatusError when
// compilation or submission failed.
func (d *Driver) Run(ctx context.Context, corpus partition.Corpus) Status {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if d.Records.Exists() {
		logger.Info("existing batch job found, checking status")
		reconciler := &Reconciler{Service: d.Service, Records: d.Records, OutputDir: d.OutputDir, Logger: logger}
		status := reconciler.Check(ctx)
		switch {
		case status == StatusCompleted || status.Processed():
			logger.Info("batch job already processed")
			return status
		case status.InFlight():
			logger.Info("batch job still processing, waiting", "status", status)
			return status
		case status == StatusNotFound:
			// Record vanished between Exists and Check; fall through to submit.
		default:
			logger.Warn("previous batch job failed, submitting new job", "status", status)
			if err := d.Records.Delete(); err != nil {
				logger.Error("failed to delete stale job record", "error", err)
				return StatusError
			}
		}
	}

	pending := d.pending(corpus, logger)
	if len(pending) == 0 {
		logger.Info("no new documents to process")
		return StatusNotFound
	}

	metadata, count, err := d.Compiler.Compile(pending, d.StagingPath)
	if err != nil {
		logger.Error("failed to compile batch requests", "error", err)
		return StatusError
	}
	logger.Info("compiled batch requests", "documents", len(pending), "requests", count)

	submitter := &Submitter{Service: d.Service, Records: d.Records, Logger: logger}
	jobID := submitter.Submit(ctx, d.StagingPath, metadata)

	// Best-effort cleanup of the staging file regardless of outcome.
	if err := os.Remove(d.StagingPath); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove staging file", "path", d.StagingPath, "error", err)
	}

	if jobID == "" {
		return StatusError
	}
	logger.Info("batch job submitted", "batch_id", jobID)
	return StatusSubmitted
}

// pending filters out documents whose metadata artifact already exists.
func (d *Driver) pending(corpus partition.Corpus, logger *slog.Logger) partition.Corpus {
	pending := make(partition.Corpus, len(corpus))
	for document, pages := range corpus {
		artifact := filepath.Join(d.OutputDir, artifactName(document))
		if _, err := os.Stat(artifact); err == nil {
			logger.Info("document already processed, skipping", "document", document)
			continue
		}
		pending[document] = pages
	}
	return pending
}
