package home

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDirName is the default name for the ragmeta home directory.
	DefaultDirName = ".ragmeta"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// JobRecordFileName is the durable batch job record.
	JobRecordFileName = "batch_info.json"

	// StagingFileName is the transient batch request file.
	StagingFileName = "batch_requests.jsonl"
)

// Dir represents the ragmeta home directory structure. All pipeline stages
// read and write their artifacts through these paths.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.ragmeta).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// DataDir holds PDFs extracted from the source archive.
func (d *Dir) DataDir() string {
	return filepath.Join(d.path, "data")
}

// ResultsDir is the root for all pipeline artifacts.
func (d *Dir) ResultsDir() string {
	return filepath.Join(d.path, "results")
}

// SelectedMetadataPath is the dataset subset matched against the archive.
func (d *Dir) SelectedMetadataPath() string {
	return filepath.Join(d.ResultsDir(), "selected_metadata.json")
}

// OCRDataDir holds per-document partition output (<stem>_ocr.json).
func (d *Dir) OCRDataDir() string {
	return filepath.Join(d.ResultsDir(), "ocr_data")
}

// OCRCorpusPath is the combined partition output for all documents.
func (d *Dir) OCRCorpusPath() string {
	return filepath.Join(d.OCRDataDir(), "all_documents_ocr.json")
}

// AnalyzedDir holds partition output enriched with image/table descriptions.
func (d *Dir) AnalyzedDir() string {
	return filepath.Join(d.ResultsDir(), "analyzed_data")
}

// AnalyzedCorpusPath is the combined analyzed corpus consumed by the batch stage.
func (d *Dir) AnalyzedCorpusPath() string {
	return filepath.Join(d.AnalyzedDir(), "all_documents_analyzed.json")
}

// MetadataDir holds per-document extraction results (<stem>_metadata.json).
func (d *Dir) MetadataDir() string {
	return filepath.Join(d.ResultsDir(), "llm_meta")
}

// StateDir holds the durable batch job record. It contains nothing else.
func (d *Dir) StateDir() string {
	return filepath.Join(d.MetadataDir(), "state")
}

// JobRecordPath is the durable batch job record file.
func (d *Dir) JobRecordPath() string {
	return filepath.Join(d.StateDir(), JobRecordFileName)
}

// StagingFilePath is the transient batch request file.
func (d *Dir) StagingFilePath() string {
	return filepath.Join(d.ResultsDir(), StagingFileName)
}

// MetadataOutputPath returns the extraction artifact for one source document.
func (d *Dir) MetadataOutputPath(document string) string {
	return filepath.Join(d.MetadataDir(), Stem(document)+"_metadata.json")
}

// AggregatedDir holds per-document aggregation output.
func (d *Dir) AggregatedDir() string {
	return filepath.Join(d.ResultsDir(), "aggregated")
}

// FinalDir holds the reorganized per-document metadata.
func (d *Dir) FinalDir() string {
	return filepath.Join(d.ResultsDir(), "final")
}

// QuestionsPath holds companies annotated with their questions.
func (d *Dir) QuestionsPath() string {
	return filepath.Join(d.ResultsDir(), "companies_with_questions.json")
}

// FinalResultsPath holds answered questions for all companies.
func (d *Dir) FinalResultsPath() string {
	return filepath.Join(d.ResultsDir(), "final_results.json")
}

// SubmissionPath is the converted submission file.
func (d *Dir) SubmissionPath() string {
	return filepath.Join(d.ResultsDir(), "submission.json")
}

// CallLogPath is the sqlite database recording LLM calls.
func (d *Dir) CallLogPath() string {
	return filepath.Join(d.path, "llm_calls.db")
}

// EnsureExists creates the home directory tree if absent.
func (d *Dir) EnsureExists() error {
	dirs := []string{
		d.DataDir(),
		d.OCRDataDir(),
		d.AnalyzedDir(),
		d.StateDir(),
		d.AggregatedDir(),
		d.FinalDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// Stem strips the extension from a document file name ("A.pdf" -> "A").
func Stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
