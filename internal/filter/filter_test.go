package filter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"escmon/internal/core"
	"escmon/internal/feeds"
)

func itemsAged(now time.Time, ageDays ...int) []core.FeedItem {
	items := make([]core.FeedItem, 0, len(ageDays))
	for i, age := range ageDays {
		items = append(items, core.FeedItem{
			ID:   fmt.Sprintf("item-%d", i),
			Date: now.AddDate(0, 0, -age),
			Text: fmt.Sprintf("item aged %d days", age),
		})
	}
	return items
}

func TestRecency(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	items := itemsAged(now, 0, 10, 3, 1, 8)

	kept := Recency(items, 7, now)

	if len(kept) != 3 {
		t.Fatalf("kept %d items, want 3", len(kept))
	}
	// Newest first.
	for i := 1; i < len(kept); i++ {
		if kept[i].Date.After(kept[i-1].Date) {
			t.Errorf("items not sorted newest-first at index %d", i)
		}
	}
	// Idempotent: filtering the output again changes nothing.
	again := Recency(kept, 7, now)
	if len(again) != len(kept) {
		t.Errorf("second pass kept %d items, want %d", len(again), len(kept))
	}
}

func TestRecencyEmpty(t *testing.T) {
	now := time.Now().UTC()
	if kept := Recency(nil, 7, now); len(kept) != 0 {
		t.Errorf("kept %d items from nil input", len(kept))
	}
}

// fakeSelector returns a canned selection or error.
type fakeSelector struct {
	selection core.ItemSelection
	err       error
	calls     int
}

func (f *fakeSelector) SelectItems(ctx context.Context, prompt string) (core.ItemSelection, error) {
	f.calls++
	return f.selection, f.err
}

func filterSource(windowDays, threshold int) feeds.Source {
	return feeds.Source{
		Name:   "Test Source",
		Filter: feeds.FilterConfig{WindowDays: windowDays, Threshold: threshold, Criteria: "keep escalation items"},
	}
}

func TestRelevanceBelowThresholdSkipsSelector(t *testing.T) {
	now := time.Now().UTC()
	sel := &fakeSelector{}
	r := NewRelevance(sel)

	items := itemsAged(now, 0, 1, 2)
	kept := r.Apply(context.Background(), filterSource(7, 5), items, now)

	if sel.calls != 0 {
		t.Errorf("selector called %d times below threshold, want 0", sel.calls)
	}
	if len(kept) != 3 {
		t.Errorf("kept %d items, want 3", len(kept))
	}
}

func TestRelevanceAppliesSelection(t *testing.T) {
	now := time.Now().UTC()
	sel := &fakeSelector{selection: core.ItemSelection{
		Numbers:   []int{1, 3, 99, 0, -2}, // out-of-range numbers are dropped
		Reasoning: "two relevant",
	}}
	r := NewRelevance(sel)

	items := itemsAged(now, 0, 1, 2, 3)
	kept := r.Apply(context.Background(), filterSource(7, 2), items, now)

	if sel.calls != 1 {
		t.Fatalf("selector called %d times, want 1", sel.calls)
	}
	if len(kept) != 2 {
		t.Fatalf("kept %d items, want 2", len(kept))
	}
	if kept[0].ID != "item-0" || kept[1].ID != "item-2" {
		t.Errorf("kept wrong items: %q, %q", kept[0].ID, kept[1].ID)
	}
}

func TestRelevanceFailsOpen(t *testing.T) {
	now := time.Now().UTC()
	sel := &fakeSelector{err: errors.New("model unavailable")}
	r := NewRelevance(sel)

	items := itemsAged(now, 0, 1, 2, 3)
	kept := r.Apply(context.Background(), filterSource(7, 2), items, now)

	if len(kept) != len(items) {
		t.Errorf("kept %d items on selector failure, want all %d", len(kept), len(items))
	}
}

func TestRelevanceNilSafe(t *testing.T) {
	now := time.Now().UTC()
	items := itemsAged(now, 0, 1, 2, 3)

	var r *Relevance
	kept := r.Apply(context.Background(), filterSource(7, 1), items, now)
	if len(kept) != len(items) {
		t.Errorf("nil relevance kept %d items, want all %d", len(kept), len(items))
	}

	disabled := NewRelevance(nil)
	kept = disabled.Apply(context.Background(), filterSource(7, 1), items, now)
	if len(kept) != len(items) {
		t.Errorf("nil selector kept %d items, want all %d", len(kept), len(items))
	}
}

func TestRelevanceRecencyRunsFirst(t *testing.T) {
	now := time.Now().UTC()
	sel := &fakeSelector{}
	r := NewRelevance(sel)

	// All items stale: recency empties the list, so the threshold is never
	// crossed and the selector is never consulted.
	items := itemsAged(now, 30, 31, 32, 33, 34)
	kept := r.Apply(context.Background(), filterSource(7, 2), items, now)

	if len(kept) != 0 {
		t.Errorf("kept %d stale items, want 0", len(kept))
	}
	if sel.calls != 0 {
		t.Errorf("selector called %d times on empty list, want 0", sel.calls)
	}
}

func TestBuildPromptNumbersItems(t *testing.T) {
	now := time.Now().UTC()
	items := itemsAged(now, 0, 1)
	prompt := buildPrompt(filterSource(7, 1), items)

	for i := range items {
		marker := fmt.Sprintf("[%d]", i+1)
		if !strings.Contains(prompt, marker) {
			t.Errorf("prompt missing item marker %q", marker)
		}
	}
	if !strings.Contains(prompt, "keep escalation items") {
		t.Error("prompt missing source criteria")
	}
}
