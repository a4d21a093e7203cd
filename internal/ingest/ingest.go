// Package ingest runs all configured source adapters under bounded
// concurrency and renders their results into the run digest.
package ingest

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"escmon/internal/config"
	"escmon/internal/core"
	"escmon/internal/feeds"
	"escmon/internal/filter"
	"escmon/internal/logger"
)

// Orchestrator fetches and filters every configured source for one run.
type Orchestrator struct {
	sources   []feeds.Source
	relevance *filter.Relevance
	cfg       config.Feeds
}

// New creates an orchestrator over the given sources. relevance may be nil,
// which disables analysis-service filtering (recency still applies).
func New(cfg config.Feeds, sources []feeds.Source, relevance *filter.Relevance) *Orchestrator {
	return &Orchestrator{
		sources:   sources,
		relevance: relevance,
		cfg:       cfg,
	}
}

// Run fetches all sources and returns the rendered digest. Per-source
// failures (including panics) become error FetchResults; Run itself never
// fails. Results are ordered by source-list position regardless of which
// fetch finishes first.
func (o *Orchestrator) Run(ctx context.Context) core.Digest {
	log := logger.With("ingest")
	start := time.Now()

	results := make([]core.FetchResult, len(o.sources))
	sem := make(chan struct{}, o.cfg.MaxConcurrency)
	var wg sync.WaitGroup

	for i, src := range o.sources {
		wg.Add(1)
		sem <- struct{}{} // Acquire concurrency token

		go func(i int, src feeds.Source) {
			defer wg.Done()
			defer func() { <-sem }() // Release token regardless of outcome
			defer func() {
				if r := recover(); r != nil {
					results[i] = core.FetchResult{
						SourceName:  src.Name,
						Timestamp:   time.Now().UTC(),
						Status:      core.FetchError,
						Items:       []core.FeedItem{},
						ErrorDetail: fmt.Sprintf("adapter panic: %v", r),
					}
				}
			}()

			results[i] = o.fetchAndFilter(ctx, src)
		}(i, src)
	}

	wg.Wait()

	digest := Render(results, time.Now().UTC())
	log.Info().
		Int("sources", digest.SourceCount).
		Int("failed", digest.FailedCount).
		Int("items", digest.ItemCount).
		Dur("elapsed", time.Since(start)).
		Msg("Ingestion completed")
	return digest
}

// fetchAndFilter runs one adapter with its own HTTP client, so a slow or
// broken source can never affect a sibling's connection.
func (o *Orchestrator) fetchAndFilter(ctx context.Context, src feeds.Source) core.FetchResult {
	client := &http.Client{Timeout: o.cfg.Timeout}

	res := src.Fetch(ctx, client)
	if res.Status != core.FetchOK {
		return res
	}

	res.Items = o.relevance.Apply(ctx, src, res.Items, time.Now().UTC())
	return res
}
