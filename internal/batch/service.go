package batch

import (
	"context"
	"encoding/json"
)

// JobInfo is the externally reported state of a batch job.
type JobInfo struct {
	Status       Status
	OutputFileID string
}

// ResultLine is one line of a downloaded batch result file.
type ResultLine struct {
	CustomID string          `json:"custom_id"`
	Response json.RawMessage `json:"response"`
}

// Service is the external batch submission collaborator. Implementations
// block on network I/O; all methods honor ctx cancellation.
type Service interface {
	// UploadFile uploads a request file and returns its file handle.
	UploadFile(ctx context.Context, name string, data []byte) (string, error)

	// CreateJob creates a batch job over the uploaded file and returns its id.
	CreateJob(ctx context.Context, inputFileID string, metadata map[string]string) (string, error)

	// RetrieveJob fetches the current job state.
	RetrieveJob(ctx context.Context, jobID string) (JobInfo, error)

	// DownloadFile fetches a result file as newline-delimited JSON.
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}
