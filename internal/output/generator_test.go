package output

import (
	"testing"

	"github.com/hrkey/refvalid/internal/consistency"
	"github.com/hrkey/refvalid/internal/fraud"
	"github.com/hrkey/refvalid/internal/reference"
	"github.com/hrkey/refvalid/internal/standardizer"
)

func cleanInput() Input {
	return Input{
		Submission: &reference.Submission{
			SubjectID: "subject-42",
			KPIRatings: reference.Ratings{
				"communication": 5,
				"teamwork":      4,
				"reliability":   5,
			},
		},
		StandardizedText:  "She communicates clearly, supports her teammates and never missed a deadline in two years of working together on the platform team.",
		Quality:           standardizer.QualityResult{Valid: true},
		Consistency:       consistency.Result{Score: 1.0, Flags: []reference.Flag{}},
		Fraud:             fraud.Assessment{Overall: 0, Components: map[string]int{}, RiskLevel: fraud.RiskLow},
		Embedding:         []float32{0.1, 0.2},
		EmbeddingProvider: "local",
	}
}

func TestGenerateApproved(t *testing.T) {
	g := NewGenerator(fraud.Thresholds{})

	record := g.Generate(cleanInput())
	if record.ValidationStatus != reference.StatusApproved {
		t.Fatalf("expected APPROVED, got %q", record.ValidationStatus)
	}
	if !record.ValidationStatus.Approved() {
		t.Fatalf("expected Approved() true for %q", record.ValidationStatus)
	}
	if record.Metadata.RecordID == "" {
		t.Fatalf("expected a record ID")
	}
	if record.Metadata.SubjectID != "subject-42" {
		t.Fatalf("expected subject ID carried over, got %q", record.Metadata.SubjectID)
	}
	if record.Metadata.ValidatedAt.IsZero() {
		t.Fatalf("expected a validation timestamp")
	}
	if len(record.StructuredDimensions) != 3 {
		t.Fatalf("expected 3 dimensions, got %d", len(record.StructuredDimensions))
	}
}

func TestGenerateStatusPrecedence(t *testing.T) {
	g := NewGenerator(fraud.Thresholds{})

	cases := []struct {
		name   string
		mutate func(*Input)
		want   reference.Status
	}{
		{
			name:   "high fraud wins over everything",
			mutate: func(in *Input) { in.Fraud.Overall = 70; in.Quality.Valid = false; in.Consistency.Score = 0 },
			want:   reference.StatusRejectedHighFraud,
		},
		{
			name:   "quality failure wins over inconsistency",
			mutate: func(in *Input) { in.Quality.Valid = false; in.Consistency.Score = 0 },
			want:   reference.StatusRejectedCritical,
		},
		{
			name:   "inconsistency below the gate",
			mutate: func(in *Input) { in.Consistency.Score = 0.39 },
			want:   reference.StatusRejectedInconsistent,
		},
		{
			name:   "consistency at the gate passes",
			mutate: func(in *Input) { in.Consistency.Score = 0.4 },
			want:   reference.StatusApproved,
		},
		{
			name:   "elevated fraud warns",
			mutate: func(in *Input) { in.Fraud.Overall = 30 },
			want:   reference.StatusApprovedWithWarnings,
		},
		{
			name: "flags warn even with a clean score",
			mutate: func(in *Input) {
				in.Consistency.Flags = []reference.Flag{{Type: reference.FlagContradiction, Detail: "x"}}
			},
			want: reference.StatusApprovedWithWarnings,
		},
		{
			name:   "fraud just below the flag threshold",
			mutate: func(in *Input) { in.Fraud.Overall = 29 },
			want:   reference.StatusApproved,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := cleanInput()
			tc.mutate(&in)
			if got := g.Generate(in).ValidationStatus; got != tc.want {
				t.Fatalf("status = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGenerateConfidenceBounds(t *testing.T) {
	g := NewGenerator(fraud.Thresholds{})

	in := cleanInput()
	record := g.Generate(in)
	if record.Confidence < 0 || record.Confidence > 1 {
		t.Fatalf("confidence out of bounds: %v", record.Confidence)
	}

	sparse := cleanInput()
	sparse.Submission.KPIRatings = reference.Ratings{"communication": 3}
	sparse.StandardizedText = "Fine to work with, no complaints."
	sparse.Consistency.Score = 0.5
	low := g.Generate(sparse)
	if low.Confidence >= record.Confidence {
		t.Fatalf("expected sparse input to score lower confidence: %v vs %v", low.Confidence, record.Confidence)
	}

	for kpi, dim := range record.StructuredDimensions {
		if dim.Confidence < 0 || dim.Confidence > 1 {
			t.Fatalf("dimension %s confidence out of bounds: %v", kpi, dim.Confidence)
		}
	}
}

func TestGenerateDetailedFeedbackRaisesDimensionConfidence(t *testing.T) {
	g := NewGenerator(fraud.Thresholds{})

	bare := cleanInput()
	withFeedback := cleanInput()
	withFeedback.Submission.DetailedFeedback = "She also mentored two juniors through their first releases."

	bareDim := g.Generate(bare).StructuredDimensions["communication"]
	richDim := g.Generate(withFeedback).StructuredDimensions["communication"]
	if richDim.Confidence <= bareDim.Confidence {
		t.Fatalf("expected detailed feedback to raise confidence: %v vs %v", richDim.Confidence, bareDim.Confidence)
	}
}
