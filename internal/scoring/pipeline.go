// Package scoring runs the escalation assessment over a rendered digest:
// optional research, five concurrent dimension scorings, weighted aggregation
// and a synthesis review that may adjust the final score within a bound.
package scoring

import (
	"context"
	"math"
	"sync"
	"time"

	"escmon/internal/core"
	"escmon/internal/logger"
	"escmon/internal/result"
)

// maxAdjustment bounds how far the synthesis review can move the final score
// away from the calculated weighted aggregate.
const maxAdjustment = 0.5

// Analyst is the subset of analysis-service calls the pipeline needs.
type Analyst interface {
	Research(ctx context.Context, prompt string) (string, error)
	ScoreDimension(ctx context.Context, prompt string) (core.DimensionScore, error)
	Review(ctx context.Context, prompt string) (core.OverallAssessment, error)
}

// Pipeline scores one digest per run. It is safe for sequential reuse.
type Pipeline struct {
	analyst  Analyst
	research bool
}

// New creates a pipeline. research toggles the optional research phase; when
// off, dimension prompts carry only the digest.
func New(analyst Analyst, research bool) *Pipeline {
	return &Pipeline{analyst: analyst, research: research}
}

// RunResult is the envelope written for every pipeline invocation, successful
// or not. Result is "ok" with a report, or "error" with an error message.
type RunResult struct {
	Result       string                 `json:"result"`
	Timestamp    time.Time              `json:"timestamp"`
	Report       *core.EscalationReport `json:"report,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
}

// Run executes the full assessment for the digest. Research and dimension
// failures degrade (placeholder brief, default dimension score); a synthesis
// failure fails the run, since an unreviewed score is worse than none.
func (p *Pipeline) Run(ctx context.Context, digest core.Digest) RunResult {
	log := logger.With("scoring")
	now := time.Now().UTC()
	date := now.Format("2006-01-02")

	brief := ResearchUnavailable
	if p.research {
		brief = result.Of(p.analyst.Research(ctx, researchPrompt(date, digest.Content))).
			OrElse(func(err error) string {
				log.Warn().Err(err).Msg("Research phase failed, continuing without brief")
				return ResearchUnavailable
			})
	}

	scores := p.scoreDimensions(ctx, date, digest.Content, brief)
	calculated := core.WeightedScore(scores)

	rationales := make(map[string]string, len(scores))
	for name, ds := range scores {
		rationales[name] = ds.Rationale
	}

	assessment, err := p.analyst.Review(ctx, reviewPrompt(date, digest.Content, scoresOnly(scores), rationales, calculated))
	if err != nil {
		log.Error().Err(err).Msg("Synthesis review failed, aborting run")
		return RunResult{
			Result:       "error",
			Timestamp:    now,
			ErrorMessage: err.Error(),
		}
	}

	final := clampAdjustment(assessment.OverallScore, calculated)
	if final != assessment.OverallScore {
		log.Warn().
			Float64("reviewed", assessment.OverallScore).
			Float64("calculated", calculated).
			Float64("clamped", final).
			Msg("Review adjustment exceeded bound, clamped")
	}
	adjustment := math.Round((final-calculated)*100) / 100

	report := &core.EscalationReport{
		Date:      date,
		Timestamp: now,
		EscalationResult: core.EscalationResult{
			Score:      final,
			Level:      core.EscalationLevel(final),
			Summary:    assessment.Summary,
			Dimensions: assessment.Dimensions,
			Methodology: core.Methodology{
				DimensionScores: scores,
				Weights:         core.Weights,
				CalculatedScore: calculated,
				FinalScore:      final,
				Adjustment:      adjustment,
			},
		},
	}

	log.Info().
		Float64("score", final).
		Str("level", report.EscalationResult.Level).
		Str("trend", assessment.Trend).
		Msg("Assessment completed")

	return RunResult{Result: "ok", Timestamp: now, Report: report}
}

// scoreDimensions scores all five dimensions concurrently. A failed call is
// replaced by the neutral default so one dimension can never sink the run.
func (p *Pipeline) scoreDimensions(ctx context.Context, date, digest, brief string) map[string]core.DimensionScore {
	log := logger.With("scoring")

	out := make([]core.DimensionScore, len(core.Dimensions))
	var wg sync.WaitGroup

	for i, name := range core.Dimensions {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			out[i] = result.Of(p.analyst.ScoreDimension(ctx, dimensionPrompt(name, date, digest, brief))).
				OrElse(func(err error) core.DimensionScore {
					log.Warn().Err(err).Str("dimension", name).Msg("Dimension scoring failed, using default")
					return core.DimensionScore{
						Score:     core.DefaultDimensionScore,
						Rationale: "Assessment unavailable, default score applied: " + err.Error(),
					}
				})
		}(i, name)
	}
	wg.Wait()

	scores := make(map[string]core.DimensionScore, len(core.Dimensions))
	for i, name := range core.Dimensions {
		scores[name] = out[i]
	}
	return scores
}

// clampAdjustment confines the reviewed score to calculated +/- maxAdjustment
// and to the valid score range, rounded to one decimal.
func clampAdjustment(reviewed, calculated float64) float64 {
	final := reviewed
	if final > calculated+maxAdjustment {
		final = calculated + maxAdjustment
	}
	if final < calculated-maxAdjustment {
		final = calculated - maxAdjustment
	}
	final = math.Round(final*10) / 10
	if final < 1.0 {
		final = 1.0
	}
	if final > 10.0 {
		final = 10.0
	}
	return final
}

func scoresOnly(scores map[string]core.DimensionScore) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for name, ds := range scores {
		out[name] = ds.Score
	}
	return out
}
