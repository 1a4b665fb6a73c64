package describe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aangers/ragmeta/internal/partition"
)

// mockDescriber counts calls and tracks peak concurrency.
type mockDescriber struct {
	mu        sync.Mutex
	imageErr  error
	tableErr  error
	delay     time.Duration
	images    int
	tables    int
	inFlight  atomic.Int32
	peak      atomic.Int32
}

func (m *mockDescriber) track() func() {
	cur := m.inFlight.Add(1)
	for {
		peak := m.peak.Load()
		if cur <= peak || m.peak.CompareAndSwap(peak, cur) {
			break
		}
	}
	return func() { m.inFlight.Add(-1) }
}

func (m *mockDescriber) DescribeImage(ctx context.Context, imageBase64 string) (string, error) {
	defer m.track()()
	time.Sleep(m.delay)
	m.mu.Lock()
	m.images++
	m.mu.Unlock()
	if m.imageErr != nil {
		return "", m.imageErr
	}
	return "a bar chart of revenue", nil
}

func (m *mockDescriber) DescribeTable(ctx context.Context, tableHTML string) (string, error) {
	defer m.track()()
	time.Sleep(m.delay)
	m.mu.Lock()
	m.tables++
	m.mu.Unlock()
	if m.tableErr != nil {
		return "", m.tableErr
	}
	return "quarterly earnings per segment", nil
}

func analyzerCorpus() partition.Corpus {
	return partition.Corpus{
		"A.pdf": partition.Pages{
			"1": {
				{Category: partition.CategoryText, Content: "Annual report"},
				{Category: partition.CategoryImage, ImageBase64: "aW1n"},
			},
			"2": {
				{Category: partition.CategoryTable, TextAsHTML: "<table><tr><td>1</td></tr></table>"},
			},
		},
	}
}

func TestAnalyzer_FillsAnalyses(t *testing.T) {
	mock := &mockDescriber{}
	outDir := t.TempDir()
	analyzer := &Analyzer{
		Describer:  mock,
		OutputDir:  outDir,
		CorpusPath: filepath.Join(outDir, "all_documents_analyzed.json"),
	}

	corpus, err := analyzer.Run(t.Context(), analyzerCorpus())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	pages := corpus["A.pdf"]
	if got := pages["1"][1].VisionAnalysis; got != "a bar chart of revenue" {
		t.Errorf("unexpected vision analysis: %q", got)
	}
	if got := pages["2"][0].TableAnalysis; got != "quarterly earnings per segment" {
		t.Errorf("unexpected table analysis: %q", got)
	}
	if pages["1"][0].VisionAnalysis != "" || pages["1"][0].TableAnalysis != "" {
		t.Error("text elements must not be analyzed")
	}

	// Per-document artifact and combined corpus on disk.
	saved, err := partition.LoadPages(filepath.Join(outDir, "A_analyzed.json"))
	if err != nil {
		t.Fatalf("analyzed artifact missing: %v", err)
	}
	if saved["1"][1].VisionAnalysis == "" {
		t.Error("artifact lost vision analysis")
	}
	if _, err := os.Stat(analyzer.CorpusPath); err != nil {
		t.Errorf("combined corpus missing: %v", err)
	}
}

func TestAnalyzer_ContinuesPastFailures(t *testing.T) {
	mock := &mockDescriber{imageErr: errors.New("model overloaded")}
	analyzer := &Analyzer{Describer: mock}

	corpus, err := analyzer.Run(t.Context(), analyzerCorpus())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	pages := corpus["A.pdf"]
	if pages["1"][1].VisionAnalysis != "" {
		t.Error("failed element must be left without analysis")
	}
	if pages["2"][0].TableAnalysis == "" {
		t.Error("table analysis must still succeed")
	}
}

func TestAnalyzer_SkipsAlreadyAnalyzed(t *testing.T) {
	mock := &mockDescriber{}
	analyzer := &Analyzer{Describer: mock}

	corpus := partition.Corpus{
		"A.pdf": partition.Pages{
			"1": {{Category: partition.CategoryImage, ImageBase64: "aW1n", VisionAnalysis: "done"}},
		},
	}
	if _, err := analyzer.Run(t.Context(), corpus); err != nil {
		t.Fatal(err)
	}
	if mock.images != 0 {
		t.Errorf("already analyzed element must be skipped, got %d calls", mock.images)
	}
}

func TestAnalyzer_BoundsConcurrency(t *testing.T) {
	mock := &mockDescriber{delay: 20 * time.Millisecond}
	analyzer := &Analyzer{Describer: mock, MaxConcurrent: 2}

	pages := partition.Pages{}
	for i := 0; i < 8; i++ {
		pages[string(rune('1'+i))] = []partition.Element{
			{Category: partition.CategoryImage, ImageBase64: "aW1n"},
		}
	}
	if _, err := analyzer.Run(t.Context(), partition.Corpus{"A.pdf": pages}); err != nil {
		t.Fatal(err)
	}

	if mock.images != 8 {
		t.Errorf("expected 8 image calls, got %d", mock.images)
	}
	if peak := mock.peak.Load(); peak > 2 {
		t.Errorf("concurrency cap exceeded: peak %d", peak)
	}
}
