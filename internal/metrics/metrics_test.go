package metrics

import (
	"testing"
	"time"

	"github.com/aangers/ragmeta/internal/llmlog"
)

func call(promptKey, model string, latencyMs int, success bool) llmlog.Call {
	return llmlog.Call{
		PromptKey: promptKey,
		Model:     model,
		LatencyMs: latencyMs,
		Success:   success,
	}
}

func TestSummarize(t *testing.T) {
	calls := []llmlog.Call{
		call("describe.image", "gpt-4o-mini", 100, true),
		call("describe.image", "gpt-4o-mini", 200, true),
		call("describe.image", "gpt-4o-mini", 300, false),
		call("describe.image", "gpt-4o-mini", 400, true),
	}

	s := Summarize(calls)
	if s.Count != 4 || s.SuccessCount != 3 || s.ErrorCount != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.SuccessRate != 0.75 {
		t.Errorf("SuccessRate = %v, want 0.75", s.SuccessRate)
	}
	if s.TotalTime != time.Second {
		t.Errorf("TotalTime = %v, want 1s", s.TotalTime)
	}
	if s.AvgLatency != 250*time.Millisecond {
		t.Errorf("AvgLatency = %v, want 250ms", s.AvgLatency)
	}
	if s.P50Latency != 200*time.Millisecond {
		t.Errorf("P50Latency = %v, want 200ms", s.P50Latency)
	}
	if s.P95Latency != 400*time.Millisecond {
		t.Errorf("P95Latency = %v, want 400ms", s.P95Latency)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Count != 0 || s.SuccessRate != 0 || s.AvgLatency != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestByPromptKey(t *testing.T) {
	calls := []llmlog.Call{
		call("describe.image", "gpt-4o-mini", 100, true),
		call("describe.table", "gpt-4o-mini", 200, true),
		call("describe.table", "gpt-4o-mini", 300, false),
	}

	groups := ByPromptKey(calls)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups["describe.image"].Count != 1 {
		t.Errorf("describe.image count = %d, want 1", groups["describe.image"].Count)
	}
	if groups["describe.table"].Count != 2 || groups["describe.table"].ErrorCount != 1 {
		t.Errorf("unexpected describe.table summary: %+v", groups["describe.table"])
	}
}

func TestByModel(t *testing.T) {
	calls := []llmlog.Call{
		call("qa.answer", "gpt-4o-mini", 100, true),
		call("qa.answer", "gpt-4o", 500, true),
	}

	groups := ByModel(calls)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups["gpt-4o"].AvgLatency != 500*time.Millisecond {
		t.Errorf("unexpected gpt-4o summary: %+v", groups["gpt-4o"])
	}
}
