package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"escmon/internal/core"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <item>
      <title>First headline</title>
      <link>https://example.com/1</link>
      <description>Body of the first entry</description>
      <pubDate>Mon, 02 Jun 2025 10:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Undated entry</title>
      <link>https://example.com/2</link>
      <description>No pubDate, must be skipped</description>
    </item>
  </channel>
</rss>`

const atomFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom</title>
  <entry>
    <title>Atom headline</title>
    <link rel="alternate" href="https://example.com/atom/1"/>
    <summary>Atom body</summary>
    <published>2025-06-02T10:00:00Z</published>
  </entry>
</feed>`

func testSource(url string) Source {
	return Source{
		Name:   "Test Source",
		URL:    url,
		Filter: FilterConfig{WindowDays: 7, Threshold: 10},
	}
}

func TestFetchRSS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	res := testSource(srv.URL).Fetch(context.Background(), srv.Client())

	if res.Status != core.FetchOK {
		t.Fatalf("Status = %v, want ok (detail: %s)", res.Status, res.ErrorDetail)
	}
	if len(res.Items) != 1 {
		t.Fatalf("got %d items, want 1 (undated entry must be skipped)", len(res.Items))
	}

	item := res.Items[0]
	if item.Text != "First headline. Body of the first entry" {
		t.Errorf("Text = %q", item.Text)
	}
	if item.URL != "https://example.com/1" {
		t.Errorf("URL = %q", item.URL)
	}
	want := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	if !item.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", item.Date, want)
	}
	if item.ID == "" {
		t.Error("ID is empty")
	}
}

func TestFetchAtom(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(atomFixture))
	}))
	defer srv.Close()

	res := testSource(srv.URL).Fetch(context.Background(), srv.Client())

	if res.Status != core.FetchOK {
		t.Fatalf("Status = %v, want ok (detail: %s)", res.Status, res.ErrorDetail)
	}
	if len(res.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(res.Items))
	}
	if res.Items[0].URL != "https://example.com/atom/1" {
		t.Errorf("URL = %q", res.Items[0].URL)
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "http 403",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
		},
		{
			name: "not a feed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html><body>not xml feed</body></html>"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			res := testSource(srv.URL).Fetch(context.Background(), srv.Client())

			if res.Status != core.FetchError {
				t.Fatalf("Status = %v, want error", res.Status)
			}
			if res.ErrorDetail == "" {
				t.Error("ErrorDetail is empty")
			}
			if len(res.Items) != 0 {
				t.Errorf("got %d items on error result, want 0", len(res.Items))
			}
			if res.SourceName != "Test Source" {
				t.Errorf("SourceName = %q", res.SourceName)
			}
		})
	}
}

func TestFetchSendsHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	src := testSource(srv.URL)
	src.Headers = map[string]string{
		"User-Agent": "Mozilla/5.0 test",
		"Accept":     "application/rss+xml",
	}
	src.Fetch(context.Background(), srv.Client())

	if gotUA != "Mozilla/5.0 test" {
		t.Errorf("User-Agent = %q, source headers must override the default", gotUA)
	}
	if gotAccept != "application/rss+xml" {
		t.Errorf("Accept = %q", gotAccept)
	}
}

func TestParseDate(t *testing.T) {
	src := Source{DateLayouts: []string{"2 Jan. 2006 15:04:05 MST"}}

	tests := []struct {
		input string
		ok    bool
	}{
		{"Mon, 02 Jun 2025 10:00:00 +0000", true},
		{"Mon, 02 Jun 2025 10:00:00 GMT", true},
		{"2025-06-02T10:00:00Z", true},
		{"2025-06-02 10:00:00", true},
		{"2 Jun. 2025 10:00:00 UTC", true}, // source-specific layout
		{"not a date", false},
		{"", false},
	}

	for _, tt := range tests {
		date, ok := src.parseDate(tt.input)
		if ok != tt.ok {
			t.Errorf("parseDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
		}
		if ok && date.Location() != time.UTC {
			t.Errorf("parseDate(%q) not normalized to UTC", tt.input)
		}
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text", "plain text stays", "plain text stays"},
		{"markup removed", "<p>Hello <b>world</b></p>", "Hello world"},
		{"entities decoded", "K&#246;ln &amp; Bonn", "Köln & Bonn"},
		{"whitespace collapsed", "  a \n\n b  ", "a b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripHTML(tt.input); got != tt.expected {
				t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestItemIDDeterministic(t *testing.T) {
	a := itemID("https://feed.example.com/rss", "https://example.com/1")
	b := itemID("https://feed.example.com/rss", "https://example.com/1")
	c := itemID("https://feed.example.com/rss", "https://example.com/2")

	if a != b {
		t.Error("same inputs produced different IDs")
	}
	if a == c {
		t.Error("different links produced the same ID")
	}
}

func TestSourcesWellFormed(t *testing.T) {
	sources := Sources()
	if len(sources) == 0 {
		t.Fatal("no sources configured")
	}

	seen := map[string]bool{}
	for _, src := range sources {
		if src.Name == "" || src.URL == "" {
			t.Errorf("source %+v missing name or URL", src)
		}
		if seen[src.Name] {
			t.Errorf("duplicate source name %q", src.Name)
		}
		seen[src.Name] = true
		if src.Filter.WindowDays <= 0 {
			t.Errorf("source %q has no recency window", src.Name)
		}
		if src.Filter.Threshold < 0 {
			t.Errorf("source %q has negative threshold", src.Name)
		}
	}
}
