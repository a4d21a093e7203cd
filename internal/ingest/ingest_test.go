package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"escmon/internal/config"
	"escmon/internal/core"
	"escmon/internal/feeds"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test</title>
    <item>
      <title>Headline</title>
      <link>https://example.com/1</link>
      <description>Body</description>
      <pubDate>%s</pubDate>
    </item>
  </channel>
</rss>`

func feedHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	date := time.Now().UTC().Format(time.RFC1123Z)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Replace(rssFixture, "%s", date, 1)))
	}
}

func testConfig() config.Feeds {
	return config.Feeds{MaxConcurrency: 2, Timeout: 5 * time.Second}
}

func TestRunIsolatesFailures(t *testing.T) {
	good := httptest.NewServer(feedHandler(t))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	sources := []feeds.Source{
		{Name: "Good A", URL: good.URL, Filter: feeds.FilterConfig{WindowDays: 7}},
		{Name: "Broken", URL: bad.URL, Filter: feeds.FilterConfig{WindowDays: 7}},
		{Name: "Good B", URL: good.URL, Filter: feeds.FilterConfig{WindowDays: 7}},
	}

	digest := New(testConfig(), sources, nil).Run(context.Background())

	if digest.SourceCount != 3 {
		t.Fatalf("SourceCount = %d, want 3", digest.SourceCount)
	}
	if digest.FailedCount != 1 {
		t.Fatalf("FailedCount = %d, want 1", digest.FailedCount)
	}
	if digest.ItemCount != 2 {
		t.Fatalf("ItemCount = %d, want 2", digest.ItemCount)
	}

	// Results stay in source-list order regardless of completion order.
	wantOrder := []string{"Good A", "Broken", "Good B"}
	for i, want := range wantOrder {
		if digest.Results[i].SourceName != want {
			t.Errorf("Results[%d] = %q, want %q", i, digest.Results[i].SourceName, want)
		}
	}
	if digest.Results[1].Status != core.FetchError {
		t.Errorf("broken source status = %v, want error", digest.Results[1].Status)
	}
}

func TestRunUnreachableHost(t *testing.T) {
	sources := []feeds.Source{
		{Name: "Gone", URL: "http://127.0.0.1:1/feed", Filter: feeds.FilterConfig{WindowDays: 7}},
	}

	digest := New(testConfig(), sources, nil).Run(context.Background())

	if digest.FailedCount != 1 {
		t.Fatalf("FailedCount = %d, want 1", digest.FailedCount)
	}
	if digest.Results[0].ErrorDetail == "" {
		t.Error("ErrorDetail is empty for unreachable host")
	}
}

func TestRenderDigest(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	results := []core.FetchResult{
		{
			SourceName: "Alpha",
			Timestamp:  now,
			Status:     core.FetchOK,
			Items: []core.FeedItem{
				{Date: now, Text: "Something happened", URL: "https://example.com/a"},
			},
		},
		{
			SourceName:  "Beta",
			Timestamp:   now,
			Status:      core.FetchError,
			Items:       []core.FeedItem{},
			ErrorDetail: "feed returned status 500",
		},
	}

	digest := Render(results, now)

	for _, want := range []string{
		"# Feed Processing Results",
		"**Summary:** 1 successful, 1 failed",
		"## Successful Feeds",
		"### Alpha",
		"1. **2025-06-10T12:00:00Z** - Something happened",
		"   - Link: https://example.com/a",
		"## Failed Feeds",
		"### Beta",
		"- **Error:** feed returned status 500",
	} {
		if !strings.Contains(digest.Content, want) {
			t.Errorf("digest missing %q", want)
		}
	}

	if digest.SourceCount != 2 || digest.FailedCount != 1 || digest.ItemCount != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1",
			digest.SourceCount, digest.FailedCount, digest.ItemCount)
	}

	// Same inputs render byte-identical output.
	if again := Render(results, now); again.Content != digest.Content {
		t.Error("Render is not deterministic")
	}
}

func TestRenderEmptySections(t *testing.T) {
	now := time.Now().UTC()
	digest := Render(nil, now)

	if strings.Contains(digest.Content, "## Successful Feeds") {
		t.Error("empty result set rendered a successful section")
	}
	if strings.Contains(digest.Content, "## Failed Feeds") {
		t.Error("empty result set rendered a failed section")
	}
	if !strings.Contains(digest.Content, "**Summary:** 0 successful, 0 failed") {
		t.Error("summary line missing")
	}
}
