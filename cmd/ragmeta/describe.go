package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aangers/ragmeta/internal/describe"
	"github.com/aangers/ragmeta/internal/llmlog"
	"github.com/aangers/ragmeta/internal/partition"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Describe report images and tables with a vision model",
	Long: `Describe walks the partitioned corpus and fills in LLM descriptions for
every image and table element. Elements that already carry a description
are skipped, so the command is safe to re-run after partial failures.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, cfg, logger, err := setup()
		if err != nil {
			return err
		}
		key, err := apiKey(cfg)
		if err != nil {
			return err
		}

		corpus, err := partition.LoadCorpus(h.OCRCorpusPath())
		if err != nil {
			return fmt.Errorf("no partitioned corpus: run partition first: %w", err)
		}

		calls, err := llmlog.Open(h.CallLogPath())
		if err != nil {
			return err
		}
		defer calls.Close()

		describer := describe.NewOpenAIDescriber(describe.OpenAIDescriberConfig{
			APIKey:     key,
			BaseURL:    cfg.OpenAI.BaseURL,
			Model:      cfg.OpenAI.DescribeModel,
			MaxRetries: cfg.Describe.MaxRetries,
			RetryDelay: time.Duration(cfg.Describe.RetryDelaySeconds) * time.Second,
			Calls:      calls,
			Logger:     logger,
		})

		analyzer := &describe.Analyzer{
			Describer:     describer,
			OutputDir:     h.AnalyzedDir(),
			CorpusPath:    h.AnalyzedCorpusPath(),
			MaxConcurrent: cfg.Describe.MaxConcurrent,
			Logger:        logger,
		}
		if _, err := analyzer.Run(cmd.Context(), corpus); err != nil {
			return err
		}
		logger.Info("describe complete", "corpus", h.AnalyzedCorpusPath())
		return nil
	},
}
