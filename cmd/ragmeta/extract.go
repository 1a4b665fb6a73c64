package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aangers/ragmeta/internal/batch"
	"github.com/aangers/ragmeta/internal/partition"
	extractprompt "github.com/aangers/ragmeta/internal/prompts/extract"
)

var extractCheckOnly bool

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract page metadata through the batch API",
	Long: `Extract compiles one classification request per (document, page) of the
analyzed corpus and submits them as a single batch job, or, when a job is
already outstanding, checks it and processes its results. At most one job
is outstanding at a time; the durable job record survives restarts.

With --check-only the command only polls the outstanding job and never
submits a new one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, cfg, logger, err := setup()
		if err != nil {
			return err
		}
		key, err := apiKey(cfg)
		if err != nil {
			return err
		}

		service := batch.NewOpenAIService(batch.OpenAIServiceConfig{
			APIKey:  key,
			BaseURL: cfg.OpenAI.BaseURL,
			Timeout: openAITimeout(cfg),
		})
		records := batch.NewRecordStore(h.StateDir())

		if extractCheckOnly {
			reconciler := &batch.Reconciler{
				Service:   service,
				Records:   records,
				OutputDir: h.MetadataDir(),
				Logger:    logger,
			}
			status := reconciler.Check(cmd.Context())
			logger.Info("batch job status", "status", status)
			if status == batch.StatusError {
				return fmt.Errorf("batch status check failed")
			}
			return nil
		}

		corpus, err := partition.LoadCorpus(h.AnalyzedCorpusPath())
		if err != nil {
			return fmt.Errorf("no analyzed corpus: run describe first: %w", err)
		}

		driver := &batch.Driver{
			Service: service,
			Records: records,
			Compiler: &batch.Compiler{
				SystemPrompt:        extractprompt.SystemPrompt(),
				Model:               cfg.OpenAI.BatchModel,
				MaxCompletionTokens: cfg.OpenAI.BatchCompletionTokens,
				Logger:              logger,
			},
			OutputDir:   h.MetadataDir(),
			StagingPath: h.StagingFilePath(),
			Logger:      logger,
		}
		status := driver.Run(cmd.Context(), corpus)
		logger.Info("extract pass finished", "status", status)
		if status == batch.StatusError {
			return fmt.Errorf("batch driver pass failed")
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractCheckOnly, "check-only", false, "only check the outstanding batch job, never submit")
}
