// Package output assembles upstream validation signals into the canonical
// validated reference record and derives the final status.
package output

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hrkey/refvalid/internal/consistency"
	"github.com/hrkey/refvalid/internal/fraud"
	"github.com/hrkey/refvalid/internal/reference"
	"github.com/hrkey/refvalid/internal/standardizer"
)

// Input gathers everything the upstream stages produced for one
// submission. No field is mutated here.
type Input struct {
	Submission        *reference.Submission
	StandardizedText  string
	Quality           standardizer.QualityResult
	Consistency       consistency.Result
	Fraud             fraud.Assessment
	Embedding         []float32
	EmbeddingProvider string
	EmbeddingSkipped  bool
	EmbeddingError    string
	KeyPhrases        []string
}

// Generator builds records using the same threshold table the fraud
// detector scores against.
type Generator struct {
	thresholds fraud.Thresholds
}

// NewGenerator creates a generator bound to the shared threshold table.
func NewGenerator(thresholds fraud.Thresholds) *Generator {
	if thresholds == (fraud.Thresholds{}) {
		thresholds = fraud.DefaultConfig().Thresholds
	}
	return &Generator{thresholds: thresholds}
}

// Generate produces the validated reference record. The record is created
// once and never mutated afterwards; the status is a pure function of the
// scores and flags that went into it.
func (g *Generator) Generate(in Input) *reference.Record {
	dimensions := g.buildDimensions(in)

	record := &reference.Record{
		StandardizedText:     in.StandardizedText,
		StructuredDimensions: dimensions,
		ConsistencyScore:     round2(in.Consistency.Score),
		FraudScore:           in.Fraud.Overall,
		FraudComponents:      in.Fraud.Components,
		RiskLevel:            in.Fraud.RiskLevel,
		Confidence:           g.overallConfidence(in),
		EmbeddingVector:      in.Embedding,
		ValidationStatus:     g.deriveStatus(in),
		Flags:                in.Consistency.Flags,
		Metadata: reference.Metadata{
			RecordID:          uuid.NewString(),
			SubjectID:         in.Submission.SubjectID,
			ValidatedAt:       time.Now().UTC(),
			EmbeddingProvider: in.EmbeddingProvider,
			EmbeddingSkipped:  in.EmbeddingSkipped,
			EmbeddingError:    in.EmbeddingError,
			QualityIssues:     in.Quality.Issues,
			KeyPhrases:        in.KeyPhrases,
		},
	}

	return record
}

// deriveStatus applies the status rules in precedence order; the first
// match wins.
func (g *Generator) deriveStatus(in Input) reference.Status {
	switch {
	case in.Fraud.Overall >= g.thresholds.RejectScore:
		return reference.StatusRejectedHighFraud
	case !in.Quality.Valid:
		return reference.StatusRejectedCritical
	case in.Consistency.Score < g.thresholds.RejectConsistency:
		return reference.StatusRejectedInconsistent
	case in.Fraud.Overall >= g.thresholds.FlagScore || len(in.Consistency.Flags) > 0:
		return reference.StatusApprovedWithWarnings
	default:
		return reference.StatusApproved
	}
}

// buildDimensions pairs each KPI rating with a confidence derived from
// narrative evidence, consistency and input completeness.
func (g *Generator) buildDimensions(in Input) map[string]reference.Dimension {
	textEvidence := math.Min(1, float64(len(in.StandardizedText))/200)

	completeness := 0.0
	if strings.TrimSpace(in.Submission.DetailedFeedback) != "" {
		completeness = 1.0
	}

	dimensions := make(map[string]reference.Dimension, len(in.Submission.KPIRatings))
	for _, kpi := range in.Submission.KPIRatings.Keys() {
		confidence := 0.4 + 0.3*in.Consistency.Score + 0.2*textEvidence + 0.1*completeness
		dimensions[kpi] = reference.Dimension{
			Rating:     in.Submission.KPIRatings[kpi],
			Confidence: round2(clamp01(confidence)),
		}
	}
	return dimensions
}

// overallConfidence weighs evidence volume (rated KPIs, narrative length)
// against the consistency score.
func (g *Generator) overallConfidence(in Input) float64 {
	kpiEvidence := math.Min(1, float64(len(in.Submission.KPIRatings))/5)
	textEvidence := math.Min(1, float64(len(in.StandardizedText))/300)
	evidence := 0.5*kpiEvidence + 0.5*textEvidence

	return round2(clamp01(0.2 + 0.5*evidence + 0.3*in.Consistency.Score))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
