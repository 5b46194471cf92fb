// Package consistency compares a new submission against the subject's
// prior validated records, producing a bounded agreement score and
// deviation flags.
package consistency

import (
	"fmt"

	"github.com/hrkey/refvalid/internal/reference"
)

// DefaultDeviationThreshold is the per-KPI absolute deviation, on the 1-5
// scale, at which a KPI_DEVIATION flag is raised.
const DefaultDeviationThreshold = 2.0

// Weight applied to the mean squared normalized deviation. Chosen so a
// deviation at the flag threshold drops the score well below 0.9 while a
// one-point difference stays above it.
const deviationWeight = 1.1

// ContradictionPenalty is subtracted from the score per detected narrative
// contradiction. Contradictions are a best-effort signal: they lower the
// score but never reject on their own.
const ContradictionPenalty = 0.1

// Config holds the checker thresholds.
type Config struct {
	DeviationThreshold float64 `mapstructure:"deviation-threshold"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{DeviationThreshold: DefaultDeviationThreshold}
}

// Result is the outcome of a consistency check.
type Result struct {
	Score float64
	Flags []reference.Flag
}

// ApplyContradictions folds narrative contradictions into the result,
// adding one flag and one score penalty per finding.
func (r *Result) ApplyContradictions(contradictions []Contradiction) {
	for _, c := range contradictions {
		r.Flags = append(r.Flags, reference.Flag{
			Type:   reference.FlagContradiction,
			Detail: fmt.Sprintf("%s: %s", c.Reason, c.Span),
		})
		r.Score -= ContradictionPenalty
	}
	if r.Score < 0 {
		r.Score = 0
	}
}

// Check scores the new ratings against the per-KPI historical means of the
// prior validated records. An empty history means there is nothing to
// contradict: the score is 1.0 with no flags. The history is read-only
// and never mutated.
func Check(ratings reference.Ratings, history *reference.History, cfg Config) Result {
	result := Result{Score: 1.0, Flags: []reference.Flag{}}
	if history.Len() == 0 {
		return result
	}

	if cfg.DeviationThreshold <= 0 {
		cfg.DeviationThreshold = DefaultDeviationThreshold
	}

	means := historicalMeans(history)

	var penalty float64
	compared := 0
	for _, kpi := range ratings.Keys() {
		mean, ok := means[kpi]
		if !ok {
			continue
		}
		compared++

		deviation := ratings[kpi] - mean
		if deviation < 0 {
			deviation = -deviation
		}

		normalized := deviation / (reference.RatingMax - reference.RatingMin)
		penalty += normalized * normalized

		if deviation >= cfg.DeviationThreshold {
			result.Flags = append(result.Flags, reference.Flag{
				Type:   reference.FlagKPIDeviation,
				Detail: fmt.Sprintf("%s: rated %.1f, historical mean %.1f (deviation %.1f)", kpi, ratings[kpi], mean, deviation),
			})
		}
	}

	if compared > 0 {
		result.Score -= penalty / float64(compared) * deviationWeight
	}

	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 1 {
		result.Score = 1
	}

	return result
}

// historicalMeans averages each KPI's rating across all prior records that
// carry it.
func historicalMeans(history *reference.History) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, record := range history.Items {
		if record == nil {
			continue
		}
		for kpi, dim := range record.StructuredDimensions {
			sums[kpi] += dim.Rating
			counts[kpi]++
		}
	}

	means := make(map[string]float64, len(sums))
	for kpi, sum := range sums {
		means[kpi] = sum / float64(counts[kpi])
	}
	return means
}
