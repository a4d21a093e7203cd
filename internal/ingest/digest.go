package ingest

import (
	"fmt"
	"strings"
	"time"

	"escmon/internal/core"
)

const timestampLayout = "2006-01-02T15:04:05Z"

// Render builds the canonical digest document from one run's fetch results:
// successful sources first, each with its full item list, then failed sources
// with their error details. The output is byte-deterministic for a given set
// of results, so downstream consumers see both the evidence and its gaps.
func Render(results []core.FetchResult, now time.Time) core.Digest {
	var successful, failed []core.FetchResult
	itemCount := 0
	for _, r := range results {
		if r.Status == core.FetchOK {
			successful = append(successful, r)
			itemCount += len(r.Items)
		} else {
			failed = append(failed, r)
		}
	}

	var b strings.Builder
	b.WriteString("# Feed Processing Results\n\n")
	fmt.Fprintf(&b, "**Summary:** %d successful, %d failed\n\n", len(successful), len(failed))

	if len(successful) > 0 {
		b.WriteString("## Successful Feeds\n\n")
		for _, r := range successful {
			fmt.Fprintf(&b, "### %s\n", r.SourceName)
			fmt.Fprintf(&b, "- **Items found:** %d\n", len(r.Items))
			fmt.Fprintf(&b, "- **Last updated:** %s\n\n", r.Timestamp.UTC().Format(timestampLayout))

			if len(r.Items) > 0 {
				b.WriteString("**Articles:**\n")
				for i, item := range r.Items {
					fmt.Fprintf(&b, "%d. **%s** - %s\n", i+1, item.Date.UTC().Format(timestampLayout), item.Text)
					fmt.Fprintf(&b, "   - Link: %s\n", item.URL)
				}
			}
			b.WriteString("\n")
		}
	}

	if len(failed) > 0 {
		b.WriteString("## Failed Feeds\n\n")
		for _, r := range failed {
			fmt.Fprintf(&b, "### %s\n", r.SourceName)
			b.WriteString("- **Status:** Error\n")
			fmt.Fprintf(&b, "- **Error:** %s\n", r.ErrorDetail)
			fmt.Fprintf(&b, "- **Timestamp:** %s\n\n", r.Timestamp.UTC().Format(timestampLayout))
		}
	}

	return core.Digest{
		Content:     b.String(),
		Timestamp:   now.UTC(),
		Results:     results,
		SourceCount: len(results),
		FailedCount: len(failed),
		ItemCount:   itemCount,
	}
}
