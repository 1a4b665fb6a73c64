package batch

import (
	"strings"

	"github.com/aangers/ragmeta/internal/partition"
)

// BuildPageContexts flattens each page's element list into a single text
// block. Table and Image elements contribute their description when present;
// a missing description degrades to an empty contribution. Pure transformation.
func BuildPageContexts(pages partition.Pages) map[string]string {
	contexts := make(map[string]string, len(pages))
	for page, elements := range pages {
		parts := make([]string, 0, len(elements)+1)
		parts = append(parts, "Page "+page+":")
		for _, el := range elements {
			switch el.Category {
			case partition.CategoryTable:
				parts = append(parts, "Table: "+el.TableAnalysis)
			case partition.CategoryImage:
				parts = append(parts, "Image: "+el.VisionAnalysis)
			default:
				parts = append(parts, el.Content)
			}
		}
		contexts[page] = strings.Join(parts, " ")
	}
	return contexts
}
