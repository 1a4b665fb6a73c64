package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/aangers/ragmeta/internal/answer"
	"github.com/aangers/ragmeta/internal/llmlog"
)

var answerQuestions string

var answerCmd = &cobra.Command{
	Use:   "answer",
	Short: "Route and answer challenge questions over the aggregates",
	Long: `Answer matches each question to its company by name, routes it onto a
metadata category, and answers it from that category's extracted evidence.
Questions with no supporting evidence get type-appropriate defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, cfg, logger, err := setup()
		if err != nil {
			return err
		}
		key, err := apiKey(cfg)
		if err != nil {
			return err
		}
		if answerQuestions == "" {
			return fmt.Errorf("--questions is required")
		}

		finalResults := filepath.Join(h.FinalDir(), "all_final_results.json")
		companies, err := answer.BuildCompanies(finalResults, answerQuestions, logger)
		if err != nil {
			return err
		}
		if err := answer.SaveCompanies(h.QuestionsPath(), companies); err != nil {
			return err
		}

		calls, err := llmlog.Open(h.CallLogPath())
		if err != nil {
			return err
		}
		defer calls.Close()

		model := answer.NewOpenAIModel(answer.OpenAIModelConfig{
			APIKey:     key,
			BaseURL:    cfg.OpenAI.BaseURL,
			Model:      cfg.OpenAI.AnswerModel,
			MaxRetries: cfg.Describe.MaxRetries,
			RetryDelay: time.Duration(cfg.Describe.RetryDelaySeconds) * time.Second,
			Calls:      calls,
			Logger:     logger,
		})

		engine := &answer.Engine{Model: model, FinalDir: h.FinalDir(), Logger: logger}
		engine.AnalyzeQuestions(cmd.Context(), companies)
		engine.AnswerQuestions(cmd.Context(), companies)

		if err := answer.SaveCompanies(h.FinalResultsPath(), companies); err != nil {
			return err
		}
		logger.Info("answering complete", "results", h.FinalResultsPath())
		return nil
	},
}

func init() {
	answerCmd.Flags().StringVar(&answerQuestions, "questions", "", "challenge questions JSON file")
}
