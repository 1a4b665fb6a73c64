// Package describe enriches partitioned report pages with model-written
// analyses of their images and tables.
package describe

import "context"

// Describer produces natural-language analyses of visual report content.
// Implementations block on network I/O; all methods honor ctx cancellation.
type Describer interface {
	// DescribeImage analyzes a base64-encoded image extracted from a report.
	DescribeImage(ctx context.Context, imageBase64 string) (string, error)

	// DescribeTable analyzes an HTML table extracted from a report.
	DescribeTable(ctx context.Context, tableHTML string) (string, error)
}
