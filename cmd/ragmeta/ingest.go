package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aangers/ragmeta/internal/ingest"
)

var (
	ingestArchive string
	ingestSubset  string
	ingestNoCheck bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Match an archive against the dataset and extract its PDFs",
	Long: `Ingest scans a zip archive of annual-report PDFs, identifies each entry by
content hash (taken from the filename when it carries one, computed
otherwise), matches the hashes against the dataset manifest, and extracts
the PDFs into the data directory for partitioning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, cfg, logger, err := setup()
		if err != nil {
			return err
		}

		archive := ingestArchive
		if archive == "" {
			archive = cfg.Dataset.Archive
		}
		subset := ingestSubset
		if subset == "" {
			subset = cfg.Dataset.Subset
		}

		entries, err := ingest.ScanArchive(archive)
		if err != nil {
			return err
		}
		logger.Info("scanned archive", "archive", archive, "entries", len(entries))

		found, notFound, err := ingest.MatchDataset(subset, entries, logger)
		if err != nil {
			return err
		}
		for _, entry := range notFound {
			logger.Warn("archive entry not in dataset", "name", entry.Name, "sha1", entry.SHA1)
		}

		data, err := json.MarshalIndent(found, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal selected metadata: %w", err)
		}
		if err := os.WriteFile(h.SelectedMetadataPath(), data, 0o644); err != nil {
			return fmt.Errorf("failed to write selected metadata: %w", err)
		}
		logger.Info("wrote selected metadata", "path", h.SelectedMetadataPath(), "matched", len(found))

		extractor := &ingest.Extractor{
			DestDir:  h.DataDir(),
			Validate: !ingestNoCheck,
			Logger:   logger,
		}
		paths, err := extractor.ExtractPDFs(archive)
		if err != nil {
			return err
		}
		logger.Info("extracted pdfs", "dir", h.DataDir(), "count", len(paths))
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestArchive, "archive", "", "zip archive of report PDFs (default: dataset.archive)")
	ingestCmd.Flags().StringVar(&ingestSubset, "subset", "", "dataset manifest file (default: dataset.subset)")
	ingestCmd.Flags().BoolVar(&ingestNoCheck, "no-check", false, "skip PDF validation of extracted files")
}
