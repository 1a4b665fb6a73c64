package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline stages up to batch submission",
	Long: `Run executes ingest, partition, describe, and extract in order. The batch
job then needs its 24h window; re-run "ragmeta extract" (or the remaining
stages) once it completes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stages := []*cobra.Command{ingestCmd, partitionCmd, describeCmd, extractCmd}
		for _, stage := range stages {
			fmt.Printf("==> %s\n", stage.Use)
			if err := stage.RunE(cmd, nil); err != nil {
				return fmt.Errorf("%s stage failed: %w", stage.Use, err)
			}
		}
		return nil
	},
}
