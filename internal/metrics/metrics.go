// Package metrics aggregates recorded LLM calls into latency and success
// summaries per prompt key and model.
package metrics

import (
	"context"
	"sort"
	"time"

	"github.com/aangers/ragmeta/internal/llmlog"
)

// Summary aggregates a set of recorded calls.
type Summary struct {
	Count        int           `json:"count"`
	SuccessCount int           `json:"success_count"`
	ErrorCount   int           `json:"error_count"`
	SuccessRate  float64       `json:"success_rate"`
	TotalTime    time.Duration `json:"total_time"`
	AvgLatency   time.Duration `json:"avg_latency"`
	P50Latency   time.Duration `json:"p50_latency"`
	P95Latency   time.Duration `json:"p95_latency"`
}

// Summarize folds calls into a Summary. An empty slice yields the zero value.
func Summarize(calls []llmlog.Call) Summary {
	var s Summary
	if len(calls) == 0 {
		return s
	}

	latencies := make([]int, 0, len(calls))
	for _, call := range calls {
		s.Count++
		if call.Success {
			s.SuccessCount++
		} else {
			s.ErrorCount++
		}
		s.TotalTime += time.Duration(call.LatencyMs) * time.Millisecond
		latencies = append(latencies, call.LatencyMs)
	}
	sort.Ints(latencies)

	s.SuccessRate = float64(s.SuccessCount) / float64(s.Count)
	s.AvgLatency = s.TotalTime / time.Duration(s.Count)
	s.P50Latency = time.Duration(percentile(latencies, 0.50)) * time.Millisecond
	s.P95Latency = time.Duration(percentile(latencies, 0.95)) * time.Millisecond
	return s
}

// percentile reads the p-th percentile from sorted latencies using
// nearest-rank.
func percentile(sorted []int, p float64) int {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(p*float64(len(sorted))+0.5) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}

// ByPromptKey groups calls by prompt key and summarizes each group.
func ByPromptKey(calls []llmlog.Call) map[string]Summary {
	return groupBy(calls, func(c llmlog.Call) string { return c.PromptKey })
}

// ByModel groups calls by model and summarizes each group.
func ByModel(calls []llmlog.Call) map[string]Summary {
	return groupBy(calls, func(c llmlog.Call) string { return c.Model })
}

func groupBy(calls []llmlog.Call, key func(llmlog.Call) string) map[string]Summary {
	groups := make(map[string][]llmlog.Call)
	for _, call := range calls {
		k := key(call)
		groups[k] = append(groups[k], call)
	}
	out := make(map[string]Summary, len(groups))
	for k, group := range groups {
		out[k] = Summarize(group)
	}
	return out
}

// Report reads every call matching the filter from the store and returns the
// overall summary plus per-prompt-key breakdowns.
func Report(ctx context.Context, store *llmlog.Store, filter llmlog.QueryFilter) (Summary, map[string]Summary, error) {
	calls, err := store.List(ctx, filter)
	if err != nil {
		return Summary{}, nil, err
	}
	return Summarize(calls), ByPromptKey(calls), nil
}
