package partition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Partitioner turns a PDF into per-page element lists. The heavy OCR/layout
// work runs in an external service; this interface is the boundary.
type Partitioner interface {
	Partition(ctx context.Context, pdfPath string) (Pages, error)
}

// HTTPPartitionerConfig configures the HTTP partitioning client.
type HTTPPartitionerConfig struct {
	BaseURL    string
	APIKey     string
	Strategy   string // "hi_res" (default) or "fast"
	Timeout    time.Duration
	HTTPClient *http.Client // Optional (tests)
}

// HTTPPartitioner calls an unstructured-style partition endpoint.
type HTTPPartitioner struct {
	baseURL  string
	apiKey   string
	strategy string
	client   *http.Client
}

// NewHTTPPartitioner creates a partitioning client.
func NewHTTPPartitioner(cfg HTTPPartitionerConfig) *HTTPPartitioner {
	if cfg.Strategy == "" {
		cfg.Strategy = "hi_res"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Minute
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPPartitioner{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		strategy: cfg.Strategy,
		client:   client,
	}
}

// wireElement is the service's flat element shape.
type wireElement struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Metadata struct {
		PageNumber  int    `json:"page_number"`
		ImageBase64 string `json:"image_base64"`
		TextAsHTML  string `json:"text_as_html"`
	} `json:"metadata"`
}

// Partition uploads the PDF and regroups the returned flat element list by page.
func (p *HTTPPartitioner) Partition(ctx context.Context, pdfPath string) (Pages, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", pdfPath, err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("files", filepath.Base(pdfPath))
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", pdfPath, err)
	}
	for field, value := range map[string]string{
		"strategy":                       p.strategy,
		"infer_table_structure":          "true",
		"extract_image_block_to_payload": "true",
	} {
		if err := mw.WriteField(field, value); err != nil {
			return nil, fmt.Errorf("failed to build multipart body: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/general/v0/general", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build partition request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("unstructured-api-key", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("partition request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("partition service returned status %d: %s", resp.StatusCode, string(msg))
	}

	var elements []wireElement
	if err := json.NewDecoder(resp.Body).Decode(&elements); err != nil {
		return nil, fmt.Errorf("failed to decode partition response: %w", err)
	}

	pages := make(Pages)
	for _, we := range elements {
		page := strconv.Itoa(we.Metadata.PageNumber)
		el := Element{
			Category: we.Type,
			Content:  we.Text,
		}
		switch we.Type {
		case CategoryImage:
			el.ImageBase64 = we.Metadata.ImageBase64
		case CategoryTable:
			el.TextAsHTML = we.Metadata.TextAsHTML
		}
		pages[page] = append(pages[page], el)
	}
	return pages, nil
}

var _ Partitioner = (*HTTPPartitioner)(nil)
