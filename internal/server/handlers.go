package server

import (
	"encoding/json"
	"net/http"
	"time"

	"escmon/internal/core"
	"escmon/internal/logger"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleScore returns just the latest score. With no report in the lookback
// window it reports the neutral baseline instead of failing, so dashboards
// polling this endpoint always get a number.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	report, _, found := s.reports.GetLatest(r.Context(), maxLookbackDays)

	score := core.DefaultDimensionScore
	if found {
		score = report.EscalationResult.Score
	}
	writeJSON(w, http.StatusOK, map[string]any{"score": score})
}

type metricsResponse struct {
	core.EscalationResult
	Date    string `json:"date"`
	AgeDays int    `json:"age_days"`
	IsToday bool   `json:"is_today"`
}

// handleMetrics returns the full latest assessment with its staleness, or a
// 404 when the lookback window holds no report at all.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	report, ageDays, found := s.reports.GetLatest(r.Context(), maxLookbackDays)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no data"})
		return
	}

	writeJSON(w, http.StatusOK, metricsResponse{
		EscalationResult: report.EscalationResult,
		Date:             report.Date,
		AgeDays:          ageDays,
		IsToday:          ageDays == 0,
	})
}

// handleCronRun triggers a full monitoring run synchronously and returns its
// outcome envelope.
func (s *Server) handleCronRun(w http.ResponseWriter, r *http.Request) {
	l := logger.With("server")
	l.Info().Msg("Triggered run starting")

	res := s.run(r.Context())
	status := http.StatusOK
	if res.Result != "ok" {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		l := logger.With("server")
		l.Error().Err(err).Msg("Failed to encode response")
	}
}
