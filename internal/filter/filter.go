// Package filter narrows a source's items in two composable stages: a cheap
// deterministic recency filter, and a relevance filter delegated to the
// analysis service once volume crosses the source's threshold.
package filter

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"escmon/internal/core"
	"escmon/internal/feeds"
	"escmon/internal/logger"
	"escmon/internal/result"
)

// Selector is the analysis-service call used for relevance filtering: given a
// numbered item list and a rubric, it returns the subset of numbers to keep.
type Selector interface {
	SelectItems(ctx context.Context, prompt string) (core.ItemSelection, error)
}

// Recency returns the items whose date is within the window ending at now,
// sorted newest-first. It is pure and idempotent.
func Recency(items []core.FeedItem, windowDays int, now time.Time) []core.FeedItem {
	cutoff := now.UTC().AddDate(0, 0, -windowDays)

	kept := make([]core.FeedItem, 0, len(items))
	for _, item := range items {
		if !item.Date.Before(cutoff) {
			kept = append(kept, item)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Date.After(kept[j].Date)
	})
	return kept
}

// Relevance applies analysis-service filtering to item lists that exceed a
// source's threshold. It fails open: any selector error or malformed
// selection returns the input unchanged.
type Relevance struct {
	selector Selector
}

// NewRelevance creates a relevance filter backed by the given selector. A nil
// selector disables relevance filtering entirely.
func NewRelevance(selector Selector) *Relevance {
	return &Relevance{selector: selector}
}

// Apply runs both filter stages for one source's fetch result.
func (r *Relevance) Apply(ctx context.Context, src feeds.Source, items []core.FeedItem, now time.Time) []core.FeedItem {
	items = Recency(items, src.Filter.WindowDays, now)

	if r == nil || r.selector == nil || len(items) <= src.Filter.Threshold {
		return items
	}

	log := logger.With("filter").With().Str("source", src.Name).Logger()

	selection := result.Of(r.selector.SelectItems(ctx, buildPrompt(src, items)))
	if err := selection.Err(); err != nil {
		log.Warn().Err(err).Int("items", len(items)).Msg("Relevance filter failed, keeping all items")
	}
	sel := selection.OrDefault(keepAll(len(items)))

	kept := make([]core.FeedItem, 0, len(sel.Numbers))
	for _, n := range sel.Numbers {
		if n >= 1 && n <= len(items) {
			kept = append(kept, items[n-1])
		}
	}

	log.Info().
		Int("before", len(items)).
		Int("after", len(kept)).
		Str("reasoning", sel.Reasoning).
		Msg("Relevance filter applied")
	return kept
}

// keepAll is the fail-open selection: every item number.
func keepAll(n int) core.ItemSelection {
	sel := core.ItemSelection{Numbers: make([]int, n)}
	for i := range sel.Numbers {
		sel.Numbers[i] = i + 1
	}
	return sel
}

func buildPrompt(src feeds.Source, items []core.FeedItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Filter these %d %s items for geopolitical escalation relevance.\n\n", len(items), src.Name)
	b.WriteString(src.Filter.Criteria)
	b.WriteString("\n\nReturn ONLY the numbers of relevant items as a JSON list.\n\n")
	b.WriteString("**Example output format:**\n{\n  \"numbers\": [1, 3, 5, 7],\n  \"reasoning\": \"Selected items focus on military tensions and diplomatic incidents.\"\n}\n\nItems:\n")
	for i, item := range items {
		fmt.Fprintf(&b, "\n[%d] %s\n", i+1, item.Text)
	}
	return b.String()
}
