// Package feeds fetches and normalizes the configured RSS/Atom sources.
package feeds

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"escmon/internal/core"
	"escmon/internal/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// maxBodyBytes bounds how much of a feed response is read.
const maxBodyBytes = 10 << 20

// defaultUserAgent identifies fetches from sources that don't need
// browser-like headers.
const defaultUserAgent = "escmon/1.0"

// RSS represents an RSS feed document.
type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Channel Channel  `xml:"channel"`
}

// Channel represents an RSS channel.
type Channel struct {
	Title string    `xml:"title"`
	Items []RSSItem `xml:"item"`
}

// RSSItem represents one RSS entry.
type RSSItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	// Some feeds carry the article body in a namespaced full-text element.
	Encoded string `xml:"encoded"`
}

// Atom represents an Atom feed document.
type Atom struct {
	XMLName xml.Name    `xml:"feed"`
	Title   string      `xml:"title"`
	Entries []AtomEntry `xml:"entry"`
}

// AtomLink represents an Atom link element.
type AtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

// AtomEntry represents one Atom entry.
type AtomEntry struct {
	Title     string     `xml:"title"`
	Link      []AtomLink `xml:"link"`
	Summary   string     `xml:"summary"`
	Published string     `xml:"published"`
	Updated   string     `xml:"updated"`
}

// FilterConfig is the per-source item filter configuration, applied after the
// fetch by the filter package.
type FilterConfig struct {
	WindowDays int    // Recency window; items older than this are dropped
	Threshold  int    // Minimum item count before the relevance filter runs
	Criteria   string // Source-specific relevance rubric (markdown)
}

// Source describes one external feed: where to fetch it, which headers it
// needs, how its dates and descriptions are shaped, and how its items are
// filtered. Sources are plain values; all adapters share one fetch path.
type Source struct {
	Name        string
	URL         string
	Headers     map[string]string // Extra headers; some sources block non-browser clients
	DateLayouts []string          // Source-specific layouts tried before the common set
	CleanHTML   bool              // Descriptions carry HTML markup that must be stripped
	Filter      FilterConfig
}

// commonDateLayouts covers the date formats seen across well-behaved feeds.
var commonDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
}

// Fetch retrieves and parses the source's feed. It never returns an error:
// transport and HTTP failures produce a FetchResult with status error, and a
// malformed entry is skipped without failing the fetch.
func (s Source) Fetch(ctx context.Context, client *http.Client) core.FetchResult {
	log := logger.With("feeds").With().Str("source", s.Name).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return s.errorResult(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("Feed fetch failed")
		return s.errorResult(fmt.Errorf("failed to fetch feed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().Int("status", resp.StatusCode).Msg("Feed returned non-2xx status")
		return s.errorResult(fmt.Errorf("feed returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return s.errorResult(fmt.Errorf("failed to read feed body: %w", err))
	}

	items, err := s.parseFeed(body)
	if err != nil {
		return s.errorResult(err)
	}

	log.Debug().Int("items", len(items)).Msg("Feed fetched")
	return core.FetchResult{
		SourceName: s.Name,
		Timestamp:  time.Now().UTC(),
		Status:     core.FetchOK,
		Items:      items,
	}
}

func (s Source) errorResult(err error) core.FetchResult {
	return core.FetchResult{
		SourceName:  s.Name,
		Timestamp:   time.Now().UTC(),
		Status:      core.FetchError,
		Items:       []core.FeedItem{},
		ErrorDetail: err.Error(),
	}
}

// parseFeed tries RSS first, then Atom.
func (s Source) parseFeed(body []byte) ([]core.FeedItem, error) {
	var rss RSS
	if err := xml.Unmarshal(body, &rss); err == nil && len(rss.Channel.Items) > 0 {
		return s.mapRSS(rss), nil
	}

	var atom Atom
	if err := xml.Unmarshal(body, &atom); err == nil && len(atom.Entries) > 0 {
		return s.mapAtom(atom), nil
	}

	return nil, fmt.Errorf("unable to parse as RSS or Atom feed")
}

func (s Source) mapRSS(rss RSS) []core.FeedItem {
	items := make([]core.FeedItem, 0, len(rss.Channel.Items))
	for _, entry := range rss.Channel.Items {
		body := entry.Description
		if entry.Encoded != "" {
			body = entry.Encoded
		}
		if item, ok := s.mapEntry(entry.Title, body, entry.Link, entry.PubDate); ok {
			items = append(items, item)
		}
	}
	return items
}

func (s Source) mapAtom(atom Atom) []core.FeedItem {
	items := make([]core.FeedItem, 0, len(atom.Entries))
	for _, entry := range atom.Entries {
		var link string
		for _, l := range entry.Link {
			if l.Rel == "" || l.Rel == "alternate" {
				link = l.Href
				break
			}
		}
		published := entry.Published
		if published == "" {
			published = entry.Updated
		}
		if item, ok := s.mapEntry(entry.Title, entry.Summary, link, published); ok {
			items = append(items, item)
		}
	}
	return items
}

// mapEntry normalizes one raw entry into a FeedItem. Entries without a
// parseable date or without any text are skipped.
func (s Source) mapEntry(title, description, link, dateStr string) (core.FeedItem, bool) {
	date, ok := s.parseDate(dateStr)
	if !ok {
		return core.FeedItem{}, false
	}

	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if s.CleanHTML {
		title = stripHTML(title)
		description = stripHTML(description)
	}

	var text string
	switch {
	case title != "" && description != "":
		text = title + ". " + description
	case title != "":
		text = title
	default:
		text = description
	}
	if strings.TrimSpace(text) == "" {
		return core.FeedItem{}, false
	}

	return core.FeedItem{
		ID:   itemID(s.URL, link),
		Date: date,
		Text: text,
		URL:  link,
	}, true
}

// parseDate tries the source-specific layouts first, then the common set.
// All results are normalized to UTC.
func (s Source) parseDate(dateStr string) (time.Time, bool) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, false
	}

	for _, layout := range append(s.DateLayouts, commonDateLayouts...) {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// stripHTML reduces an HTML fragment to its text content. Feeds that wrap
// entity-encoded markup in CDATA need a decode pass before parsing.
func stripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	if !strings.Contains(fragment, "<") {
		fragment = html.UnescapeString(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// itemID creates a deterministic ID for a feed item.
func itemID(feedURL, link string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(feedURL+link)).String()
}
