package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/aangers/ragmeta/internal/partition"
)

var partitionCmd = &cobra.Command{
	Use:   "partition",
	Short: "Partition extracted PDFs into per-page layout elements",
	Long: `Partition sends every PDF in the data directory to the partitioning
service and writes one <stem>_ocr.json artifact per document, plus a
combined corpus for the downstream stages. Documents that already have an
artifact are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, cfg, logger, err := setup()
		if err != nil {
			return err
		}

		pdfs, err := filepath.Glob(filepath.Join(h.DataDir(), "*.pdf"))
		if err != nil {
			return err
		}
		if len(pdfs) == 0 {
			return fmt.Errorf("no PDFs in %s: run ingest first", h.DataDir())
		}

		partitioner := partition.NewHTTPPartitioner(partition.HTTPPartitionerConfig{
			BaseURL:  cfg.Partition.Endpoint,
			Strategy: cfg.Partition.Strategy,
			Timeout:  10 * time.Minute,
		})

		corpus := make(partition.Corpus, len(pdfs))
		for _, pdf := range pdfs {
			doc := filepath.Base(pdf)
			artifact := filepath.Join(h.OCRDataDir(), partition.OCRArtifactName(doc))

			if pages, err := partition.LoadPages(artifact); err == nil {
				logger.Info("already partitioned, skipping", "document", doc)
				corpus[doc] = pages
				continue
			}

			logger.Info("partitioning", "document", doc)
			pages, err := partitioner.Partition(cmd.Context(), pdf)
			if err != nil {
				logger.Error("partition failed", "document", doc, "error", err)
				continue
			}
			if err := partition.SavePages(artifact, pages); err != nil {
				return err
			}
			corpus[doc] = pages
			logger.Info("partitioned", "document", doc, "pages", len(pages))
		}

		if err := partition.SaveCorpus(h.OCRCorpusPath(), corpus); err != nil {
			return err
		}
		logger.Info("partition complete", "documents", len(corpus), "corpus", h.OCRCorpusPath())
		return nil
	},
}
