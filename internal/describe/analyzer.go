package describe

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/aangers/ragmeta/internal/partition"
)

// DefaultMaxConcurrent caps simultaneous description requests.
const DefaultMaxConcurrent = 5

// Analyzer walks a partitioned corpus and fills in the VisionAnalysis and
// TableAnalysis fields of its image and table elements.
type Analyzer struct {
	Describer Describer

	// OutputDir receives one <stem>_analyzed.json artifact per document.
	OutputDir string

	// CorpusPath, when set, receives the combined analyzed corpus.
	CorpusPath string

	// MaxConcurrent bounds in-flight description requests across the whole
	// run. Zero means DefaultMaxConcurrent.
	MaxConcurrent int

	Logger *slog.Logger
}

func (a *Analyzer) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// Run analyzes every image and table element in the corpus. Failed elements
// are logged and left without analysis; the run continues. The returned
// corpus is the input with analyses filled in.
func (a *Analyzer) Run(ctx context.Context, corpus partition.Corpus) (partition.Corpus, error) {
	limit := a.MaxConcurrent
	if limit <= 0 {
		limit = DefaultMaxConcurrent
	}
	sem := make(chan struct{}, limit)

	for _, doc := range corpus.SortedDocuments() {
		pages := corpus[doc]
		a.analyzeDocument(ctx, doc, pages, sem)

		if a.OutputDir != "" {
			path := filepath.Join(a.OutputDir, partition.AnalyzedArtifactName(doc))
			if err := partition.SavePages(path, pages); err != nil {
				a.logger().Error("failed to write analyzed document", "document", doc, "error", err)
			} else {
				a.logger().Info("analyzed document written", "document", doc, "path", path)
			}
		}
	}

	if a.CorpusPath != "" {
		if err := partition.SaveCorpus(a.CorpusPath, corpus); err != nil {
			a.logger().Error("failed to write analyzed corpus", "path", a.CorpusPath, "error", err)
			return corpus, err
		}
	}
	return corpus, nil
}

// analyzeDocument fans out over the document's visual elements, bounded by
// the shared semaphore.
func (a *Analyzer) analyzeDocument(ctx context.Context, doc string, pages partition.Pages, sem chan struct{}) {
	var wg sync.WaitGroup

	for _, pageID := range pages.SortedPageIDs() {
		elements := pages[pageID]
		for i := range elements {
			element := &elements[i]
			switch element.Category {
			case partition.CategoryImage:
				if element.ImageBase64 == "" || element.VisionAnalysis != "" {
					continue
				}
			case partition.CategoryTable:
				if element.TextAsHTML == "" || element.TableAnalysis != "" {
					continue
				}
			default:
				continue
			}

			wg.Add(1)
			sem <- struct{}{}
			go func(pageID string, element *partition.Element) {
				defer wg.Done()
				defer func() { <-sem }()
				a.analyzeElement(ctx, doc, pageID, element)
			}(pageID, element)
		}
	}

	wg.Wait()
}

func (a *Analyzer) analyzeElement(ctx context.Context, doc, pageID string, element *partition.Element) {
	var (
		analysis string
		err      error
	)
	switch element.Category {
	case partition.CategoryImage:
		analysis, err = a.Describer.DescribeImage(ctx, element.ImageBase64)
	case partition.CategoryTable:
		analysis, err = a.Describer.DescribeTable(ctx, element.TextAsHTML)
	}
	if err != nil {
		a.logger().Warn("element analysis failed",
			"document", doc,
			"page", pageID,
			"category", element.Category,
			"error", err)
		return
	}

	switch element.Category {
	case partition.CategoryImage:
		element.VisionAnalysis = analysis
	case partition.CategoryTable:
		element.TableAnalysis = analysis
	}
}
