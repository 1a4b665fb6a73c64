package main

import (
	"github.com/spf13/cobra"

	"github.com/aangers/ragmeta/internal/aggregate"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Fold page extraction results into per-document records",
	Long: `Aggregate reads every extraction artifact, matches each document to its
dataset record, and writes the aggregated and final per-document metadata
along with the combined result files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, _, logger, err := setup()
		if err != nil {
			return err
		}

		runner := &aggregate.Runner{
			DatasetPath: h.SelectedMetadataPath(),
			MetadataDir: h.MetadataDir(),
			OutputDir:   h.AggregatedDir(),
			FinalDir:    h.FinalDir(),
			Logger:      logger,
		}
		return runner.Run()
	},
}
