package ingest

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Extractor unpacks PDFs from the dataset archive into a working directory.
type Extractor struct {
	// DestDir receives the extracted PDFs, flattened to their base names.
	DestDir string

	// Validate runs a page-count check on each extracted PDF and drops the
	// ones pdfcpu cannot read.
	Validate bool

	Logger *slog.Logger
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// ExtractPDFs unpacks every PDF in the archive and returns the extracted
// paths. Unreadable PDFs are logged and skipped, not fatal.
func (e *Extractor) ExtractPDFs(zipPath string) ([]string, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer reader.Close()

	if err := os.MkdirAll(e.DestDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create extraction dir: %w", err)
	}

	var extracted []string
	for _, file := range reader.File {
		if file.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(file.Name), ".pdf") {
			continue
		}

		dest, err := e.extractOne(file)
		if err != nil {
			e.logger().Error("failed to extract pdf", "name", file.Name, "error", err)
			continue
		}

		if e.Validate {
			pages, err := api.PageCountFile(dest)
			if err != nil {
				e.logger().Warn("skipping unreadable pdf", "name", file.Name, "error", err)
				os.Remove(dest)
				continue
			}
			e.logger().Info("extracted pdf", "name", filepath.Base(dest), "pages", pages)
		}

		extracted = append(extracted, dest)
	}
	return extracted, nil
}

// extractOne writes a single archive entry under DestDir, flattened to its
// base name. Entries that would escape DestDir are rejected.
func (e *Extractor) extractOne(file *zip.File) (string, error) {
	base := filepath.Base(filepath.Clean(file.Name))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", fmt.Errorf("invalid archive entry name %q", file.Name)
	}

	dest := filepath.Join(e.DestDir, base)
	if rel, err := filepath.Rel(e.DestDir, dest); err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("archive entry %q escapes destination", file.Name)
	}

	rc, err := file.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		os.Remove(dest)
		return "", err
	}
	return dest, nil
}
