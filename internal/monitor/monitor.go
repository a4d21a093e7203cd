// Package monitor wires one full run together: ingest the sources, score the
// digest, persist the report.
package monitor

import (
	"context"

	"escmon/internal/config"
	"escmon/internal/feeds"
	"escmon/internal/filter"
	"escmon/internal/ingest"
	"escmon/internal/llm"
	"escmon/internal/logger"
	"escmon/internal/scoring"
	"escmon/internal/store"
)

// Monitor runs the complete daily assessment.
type Monitor struct {
	orchestrator *ingest.Orchestrator
	pipeline     *scoring.Pipeline
	reports      *store.Store
}

// Build assembles a monitor from already constructed parts. It exists so
// tests can inject fakes; FromConfig is the production path.
func Build(orchestrator *ingest.Orchestrator, pipeline *scoring.Pipeline, reports *store.Store) *Monitor {
	return &Monitor{orchestrator: orchestrator, pipeline: pipeline, reports: reports}
}

// FromConfig builds the production monitor: the analysis client backs both
// the relevance filter and the scoring pipeline, and the report store backend
// follows the environment.
func FromConfig(cfg *config.Config) (*Monitor, error) {
	client, err := llm.NewClient(cfg.Analysis)
	if err != nil {
		return nil, err
	}

	relevance := filter.NewRelevance(client)
	orchestrator := ingest.New(cfg.Feeds, feeds.Sources(), relevance)
	pipeline := scoring.New(client, cfg.Analysis.Research)
	reports := store.New(cfg.Storage, cfg.Env)

	return Build(orchestrator, pipeline, reports), nil
}

// Reports exposes the report store, for the read-side endpoints and commands.
func (m *Monitor) Reports() *store.Store {
	return m.reports
}

// Run executes one assessment end to end and returns the outcome envelope.
// The report is persisted only for successful runs.
func (m *Monitor) Run(ctx context.Context) scoring.RunResult {
	log := logger.With("monitor")

	digest := m.orchestrator.Run(ctx)
	res := m.pipeline.Run(ctx, digest)
	if res.Result != "ok" {
		return res
	}

	if !m.reports.Save(ctx, res.Report) {
		log.Error().Str("date", res.Report.Date).Msg("Report could not be persisted anywhere")
	}
	return res
}
