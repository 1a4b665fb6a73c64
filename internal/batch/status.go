package batch

// Status is the batch job lifecycle state as seen by this process. It covers
// both statuses reported by the external service and the local-only states
// (no record on disk, reconciled, check failure).
type Status string

const (
	// StatusNotFound means no job record exists; nothing is outstanding.
	StatusNotFound Status = "not_found"

	// StatusError means the status check itself failed; the record, if any,
	// is left untouched and a later run should retry.
	StatusError Status = "error"

	// Statuses reported by the external batch service.
	StatusSubmitted  Status = "submitted"
	StatusValidating Status = "validating"
	StatusQueued     Status = "queued"
	StatusInProgress Status = "in_progress"
	StatusFinalizing Status = "finalizing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusExpired    Status = "expired"
	StatusCancelling Status = "cancelling"
	StatusCancelled  Status = "cancelled"

	// StatusCompletedAndProcessed means results were downloaded, demultiplexed
	// into per-document artifacts, and the job record deleted.
	StatusCompletedAndProcessed Status = "completed_and_processed"
)

// InFlight reports whether the job is still owned by the external service and
// a new submission must not happen.
func (s Status) InFlight() bool {
	switch s {
	case StatusSubmitted, StatusValidating, StatusQueued, StatusInProgress, StatusFinalizing, StatusCancelling:
		return true
	}
	return false
}

// Processed reports whether results have been fully reconciled to disk.
func (s Status) Processed() bool {
	return s == StatusCompletedAndProcessed
}
