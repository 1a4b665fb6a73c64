package main

import (
	"github.com/spf13/cobra"

	"github.com/aangers/ragmeta/internal/answer"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Convert answered questions into the submission format",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, cfg, logger, err := setup()
		if err != nil {
			return err
		}

		companies, err := answer.LoadCompanies(h.FinalResultsPath())
		if err != nil {
			return err
		}

		submission := answer.BuildSubmission(companies, cfg.Team.Email, cfg.Team.SubmissionName)
		if err := submission.Write(h.SubmissionPath()); err != nil {
			return err
		}
		logger.Info("wrote submission", "path", h.SubmissionPath(), "answers", len(submission.Answers))
		return nil
	},
}
