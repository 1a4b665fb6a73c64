package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aangers/ragmeta/internal/llmlog"
	"github.com/aangers/ragmeta/internal/metrics"
)

var (
	callsDocument string
	callsFailed   bool
)

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "Summarize recorded LLM calls",
	Long: `Calls reads the call log and prints latency and success summaries,
overall and per prompt key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, _, _, err := setup()
		if err != nil {
			return err
		}

		store, err := llmlog.Open(h.CallLogPath())
		if err != nil {
			return err
		}
		defer store.Close()

		filter := llmlog.QueryFilter{Document: callsDocument}
		if callsFailed {
			failed := false
			filter.Success = &failed
		}

		overall, byKey, err := metrics.Report(cmd.Context(), store, filter)
		if err != nil {
			return err
		}

		fmt.Printf("calls: %d  ok: %d  failed: %d  avg: %s  p95: %s\n",
			overall.Count, overall.SuccessCount, overall.ErrorCount,
			overall.AvgLatency, overall.P95Latency)

		keys := make([]string, 0, len(byKey))
		for key := range byKey {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			s := byKey[key]
			fmt.Printf("  %-20s %5d calls  %3.0f%% ok  avg %s\n",
				key, s.Count, s.SuccessRate*100, s.AvgLatency)
		}
		return nil
	},
}

func init() {
	callsCmd.Flags().StringVar(&callsDocument, "document", "", "restrict to one source document")
	callsCmd.Flags().BoolVar(&callsFailed, "failed", false, "show only failed calls")
}
