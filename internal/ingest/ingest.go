// Package ingest pulls challenge PDFs out of the dataset archive and matches
// them against the dataset manifest by content hash.
package ingest

import (
	"archive/zip"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one PDF discovered in the dataset archive.
type Entry struct {
	// Name is the archive-relative path of the PDF.
	Name string `json:"name"`

	// SHA1 identifies the file content, from the filename when it carries a
	// 40-hex prefix, computed from the bytes otherwise.
	SHA1 string `json:"sha1"`

	// Company is the filename remainder after the hash prefix.
	Company string `json:"company"`
}

// SHA1FromFilename extracts a sha1 hex digest embedded in a filename.
// Accepts `<sha1>.pdf` and `<sha1>_company.pdf` forms.
func SHA1FromFilename(name string) (string, bool) {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if isSHA1Hex(stem) {
		return strings.ToLower(stem), true
	}
	if prefix, _, ok := strings.Cut(stem, "_"); ok && isSHA1Hex(prefix) {
		return strings.ToLower(prefix), true
	}
	return "", false
}

func isSHA1Hex(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, c := range strings.ToLower(s) {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// FileSHA1 computes the sha1 hex digest of a file on disk.
func FileSHA1(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return readerSHA1(f)
}

func readerSHA1(r io.Reader) (string, error) {
	h := sha1.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// companyFromName derives the company label from a filename stem.
func companyFromName(name string) string {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if _, rest, ok := strings.Cut(stem, "_"); ok {
		return rest
	}
	return stem
}

// ScanArchive lists the PDFs in a zip archive with their content hashes.
// Hashes missing from filenames are computed by streaming the entry.
func ScanArchive(zipPath string) ([]Entry, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer reader.Close()

	var entries []Entry
	for _, file := range reader.File {
		if file.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(file.Name), ".pdf") {
			continue
		}

		sha, ok := SHA1FromFilename(file.Name)
		if !ok {
			rc, err := file.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open %s: %w", file.Name, err)
			}
			sha, err = readerSHA1(rc)
			rc.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to hash %s: %w", file.Name, err)
			}
		}

		entries = append(entries, Entry{
			Name:    file.Name,
			SHA1:    sha,
			Company: companyFromName(file.Name),
		})
	}
	return entries, nil
}

// MatchDataset looks archive entries up in the dataset manifest by sha1.
// The manifest maps dataset keys to records carrying a "sha1" field. Returns
// the matched records and the entries with no manifest counterpart.
func MatchDataset(datasetPath string, entries []Entry, logger *slog.Logger) (map[string]json.RawMessage, []Entry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(datasetPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var dataset map[string]json.RawMessage
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	// Index manifest records by sha1.
	bySHA := make(map[string]string, len(dataset))
	for key, record := range dataset {
		var fields struct {
			SHA1 string `json:"sha1"`
		}
		if err := json.Unmarshal(record, &fields); err != nil {
			continue
		}
		if fields.SHA1 != "" {
			bySHA[strings.ToLower(fields.SHA1)] = key
		}
	}

	found := make(map[string]json.RawMessage)
	var notFound []Entry
	for _, entry := range entries {
		key, ok := bySHA[entry.SHA1]
		if !ok {
			notFound = append(notFound, entry)
			continue
		}
		found[key] = dataset[key]
	}

	if len(notFound) > 0 {
		logger.Warn("archive entries missing from dataset", "count", len(notFound))
	}
	return found, notFound, nil
}
