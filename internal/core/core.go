// Package core defines the shared data model for the escalation monitor.
package core

import (
	"math"
	"time"
)

// FetchStatus is the outcome of a single source fetch.
type FetchStatus string

const (
	// FetchOK marks a successful fetch with zero or more items.
	FetchOK FetchStatus = "ok"
	// FetchError marks a failed fetch; the item list is always empty.
	FetchError FetchStatus = "error"
)

// FeedItem is one normalized entry produced by a source adapter.
// Items are immutable once produced; every item carries a resolvable
// UTC timestamp (adapters discard entries whose date cannot be parsed).
type FeedItem struct {
	ID   string    `json:"id"`   // Deterministic ID derived from feed URL + link
	Date time.Time `json:"date"` // Publication time, UTC
	Text string    `json:"text"` // Title + body, never empty
	URL  string    `json:"url"`  // Link to the original entry
}

// FetchResult is the complete outcome of one adapter run. It is never
// partially valid: either Status is FetchOK, or Status is FetchError with an
// empty item list and ErrorDetail set.
type FetchResult struct {
	SourceName  string      `json:"source_name"`
	Timestamp   time.Time   `json:"timestamp"` // When the fetch completed, UTC
	Status      FetchStatus `json:"status"`
	Items       []FeedItem  `json:"items"`
	ErrorDetail string      `json:"error_detail,omitempty"`
}

// Digest is the single rendered document aggregating all fetch results for
// one run. It is the read-only shared context for every analysis call.
type Digest struct {
	Content     string        `json:"content"`   // Rendered markdown
	Timestamp   time.Time     `json:"timestamp"` // When the digest was rendered, UTC
	Results     []FetchResult `json:"results"`
	SourceCount int           `json:"source_count"`
	FailedCount int           `json:"failed_count"`
	ItemCount   int           `json:"item_count"`
}

// ItemSelection is the analysis service's answer to a relevance-filter call:
// the 1-based numbers of the items to keep plus a short justification.
type ItemSelection struct {
	Numbers   []int  `json:"numbers"`
	Reasoning string `json:"reasoning"`
}

// DimensionScore is the structured result of one dimension-scoring call.
type DimensionScore struct {
	Score     float64 `json:"score"`     // 1.0 to 10.0
	Rationale string  `json:"rationale"` // Neutral explanation for the score
}

// DimensionReview is a dimension score after the synthesis pass, which may
// emit an adjusted copy.
type DimensionReview struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

// OverallAssessment is the synthesis output covering all five dimensions.
type OverallAssessment struct {
	OverallScore   float64           `json:"overall_score"` // 1.0 to 10.0
	Summary        string            `json:"summary"`
	Dimensions     []DimensionReview `json:"dimensions"` // Exactly five
	Trend          string            `json:"trend"`      // STABLE | ESCALATING | DE-ESCALATING
	BlindSpots     []string          `json:"blind_spots"`
	Contradictions []string          `json:"contradictions"`
	Corrections    []string          `json:"corrections"`
}

// Methodology records how the final score was derived.
type Methodology struct {
	DimensionScores map[string]DimensionScore `json:"dimension_scores"`
	Weights         map[string]float64        `json:"weights"`
	CalculatedScore float64                   `json:"calculated_score"`
	FinalScore      float64                   `json:"final_score"`
	Adjustment      float64                   `json:"adjustment"`
}

// EscalationResult is the scored outcome of one pipeline run.
type EscalationResult struct {
	Score       float64           `json:"score"`
	Level       string            `json:"level"`
	Summary     string            `json:"summary"`
	Dimensions  []DimensionReview `json:"dimensions"`
	Methodology Methodology       `json:"methodology"`
}

// EscalationReport is the persisted output of one successful pipeline run,
// keyed by calendar date. A later run for the same date overwrites it.
type EscalationReport struct {
	Date             string           `json:"date"` // YYYY-MM-DD
	Timestamp        time.Time        `json:"timestamp"`
	EscalationResult EscalationResult `json:"escalation_result"`
}

// Dimension names, in scoring order.
const (
	DimensionMilitary   = "military"
	DimensionDiplomatic = "diplomatic"
	DimensionEconomic   = "economic"
	DimensionSocietal   = "societal"
	DimensionRussians   = "russians"
)

// Dimensions lists all scoring dimensions in canonical order.
var Dimensions = []string{
	DimensionMilitary,
	DimensionDiplomatic,
	DimensionEconomic,
	DimensionSocietal,
	DimensionRussians,
}

// Weights is the fixed dimension weight table. The weights sum to 1.0 and are
// never mutated at runtime.
var Weights = map[string]float64{
	DimensionMilitary:   0.30,
	DimensionDiplomatic: 0.20,
	DimensionEconomic:   0.20,
	DimensionSocietal:   0.15,
	DimensionRussians:   0.15,
}

// DefaultDimensionScore substitutes for a dimension whose scoring call failed.
const DefaultDimensionScore = 2.0

// WeightedScore computes the weighted aggregate of the dimension scores,
// rounded to one decimal.
func WeightedScore(scores map[string]DimensionScore) float64 {
	total := 0.0
	for name, ds := range scores {
		total += ds.Score * Weights[name]
	}
	return math.Round(total*10) / 10
}

// EscalationLevel maps a score in [1,10] to its named level. The bins are
// half-open and gapless, so every score maps to exactly one level.
func EscalationLevel(score float64) string {
	switch {
	case score < 1.5:
		return "BASELINE"
	case score < 2.5:
		return "FRICTION"
	case score < 3.5:
		return "TENSION"
	case score < 4.5:
		return "ALERT"
	case score < 5.5:
		return "ELEVATED"
	case score < 6.5:
		return "HIGH"
	case score < 7.5:
		return "SEVERE"
	case score < 8.5:
		return "CRITICAL"
	case score < 9.5:
		return "EMERGENCY"
	default:
		return "WARTIME"
	}
}
