package aggregate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Runner aggregates every metadata artifact in a directory and writes the
// per-document and combined aggregate files.
type Runner struct {
	// DatasetPath is the manifest the aggregates are shaped after.
	DatasetPath string

	// MetadataDir holds the <stem>_metadata.json artifacts.
	MetadataDir string

	// OutputDir receives <stem>_aggregated.json files.
	OutputDir string

	// FinalDir receives the reorganized <stem>_final.json files.
	FinalDir string

	Logger *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Run aggregates all documents. Documents with no manifest target are logged
// and skipped.
func (r *Runner) Run() error {
	for _, dir := range []string{r.OutputDir, r.FinalDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	data, err := os.ReadFile(r.DatasetPath)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	var dataset map[string]json.RawMessage
	if err := json.Unmarshal(data, &dataset); err != nil {
		return fmt.Errorf("failed to parse dataset: %w", err)
	}

	artifacts, err := filepath.Glob(filepath.Join(r.MetadataDir, "*_metadata.json"))
	if err != nil {
		return fmt.Errorf("failed to list metadata artifacts: %w", err)
	}
	r.logger().Info("aggregating metadata artifacts", "count", len(artifacts))

	aggregated := make(map[string]map[string]any)
	for _, artifact := range artifacts {
		stem := strings.TrimSuffix(filepath.Base(artifact), "_metadata.json")

		record, err := r.aggregateOne(stem, artifact, dataset)
		if err != nil {
			r.logger().Warn("skipping document", "document", stem, "error", err)
			continue
		}
		aggregated[stem] = record

		path := filepath.Join(r.OutputDir, stem+"_aggregated.json")
		if err := writeJSON(path, record); err != nil {
			return err
		}
	}

	if err := writeJSON(filepath.Join(r.OutputDir, "all_aggregated_results.json"), aggregated); err != nil {
		return err
	}

	final := make(map[string]map[string]any, len(aggregated))
	for stem, record := range aggregated {
		reorganized := Reorganize(record)
		final[stem] = reorganized
		if err := writeJSON(filepath.Join(r.FinalDir, stem+"_final.json"), reorganized); err != nil {
			return err
		}
	}
	if err := writeJSON(filepath.Join(r.FinalDir, "all_final_results.json"), final); err != nil {
		return err
	}

	r.logger().Info("aggregation complete", "documents", len(aggregated))
	return nil
}

func (r *Runner) aggregateOne(stem, artifact string, dataset map[string]json.RawMessage) (map[string]any, error) {
	target, ok := FindTarget(dataset, stem, stem)
	if !ok {
		return nil, fmt.Errorf("no manifest target for %s", stem)
	}

	data, err := os.ReadFile(artifact)
	if err != nil {
		return nil, err
	}
	results, err := decodePageResults(data)
	if err != nil {
		return nil, err
	}

	return AggregateDocument(target, results, r.logger().With("document", stem)), nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
