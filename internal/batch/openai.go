package batch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIServiceConfig configures the OpenAI batch service client.
type OpenAIServiceConfig struct {
	APIKey     string
	BaseURL    string       // Optional (tests)
	HTTPClient *http.Client // Optional (tests)
	Timeout    time.Duration
}

// OpenAIService implements Service using the official OpenAI SDK. Jobs target
// the chat-completions endpoint with the fixed 24h completion window.
type OpenAIService struct {
	client openai.Client
}

// NewOpenAIService creates a batch service client.
func NewOpenAIService(cfg OpenAIServiceConfig) *OpenAIService {
	if cfg.Timeout == 0 {
		cfg.Timeout = 300 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIService{client: openai.NewClient(opts...)}
}

// UploadFile uploads the request file with the batch purpose.
func (s *OpenAIService) UploadFile(ctx context.Context, name string, data []byte) (string, error) {
	file, err := s.client.Files.New(ctx, openai.FileNewParams{
		File:    openai.File(bytes.NewReader(data), name, "application/jsonl"),
		Purpose: openai.FilePurposeBatch,
	})
	if err != nil {
		return "", fmt.Errorf("file upload failed: %w", err)
	}
	return file.ID, nil
}

// CreateJob creates the batch job referencing the uploaded file.
func (s *OpenAIService) CreateJob(ctx context.Context, inputFileID string, metadata map[string]string) (string, error) {
	params := openai.BatchNewParams{
		CompletionWindow: openai.BatchNewParamsCompletionWindow24h,
		Endpoint:         openai.BatchNewParamsEndpointV1ChatCompletions,
		InputFileID:      inputFileID,
	}
	if len(metadata) > 0 {
		params.Metadata = shared.Metadata(metadata)
	}
	job, err := s.client.Batches.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("batch creation failed: %w", err)
	}
	return job.ID, nil
}

// RetrieveJob fetches the current job state.
func (s *OpenAIService) RetrieveJob(ctx context.Context, jobID string) (JobInfo, error) {
	job, err := s.client.Batches.Get(ctx, jobID)
	if err != nil {
		return JobInfo{}, fmt.Errorf("batch retrieval failed: %w", err)
	}
	return JobInfo{
		Status:       Status(job.Status),
		OutputFileID: job.OutputFileID,
	}, nil
}

// DownloadFile fetches a result file's content.
func (s *OpenAIService) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := s.client.Files.Content(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("file download failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading file content: %w", err)
	}
	return data, nil
}

var _ Service = (*OpenAIService)(nil)
