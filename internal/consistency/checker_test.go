package consistency

import (
	"math"
	"testing"

	"github.com/hrkey/refvalid/internal/reference"
)

func historyWith(ratings ...map[string]float64) *reference.History {
	h := &reference.History{}
	for _, r := range ratings {
		dims := make(map[string]reference.Dimension, len(r))
		for kpi, rating := range r {
			dims[kpi] = reference.Dimension{Rating: rating, Confidence: 0.8}
		}
		h.Items = append(h.Items, &reference.Record{StructuredDimensions: dims})
	}
	return h
}

func TestCheckEmptyHistory(t *testing.T) {
	result := Check(reference.Ratings{"communication": 5}, &reference.History{}, DefaultConfig())
	if result.Score != 1.0 {
		t.Fatalf("expected score 1.0, got %v", result.Score)
	}
	if len(result.Flags) != 0 {
		t.Fatalf("expected no flags, got %v", result.Flags)
	}
}

func TestCheckNilHistory(t *testing.T) {
	result := Check(reference.Ratings{"communication": 5}, nil, DefaultConfig())
	if result.Score != 1.0 || len(result.Flags) != 0 {
		t.Fatalf("expected clean result for nil history, got %+v", result)
	}
}

func TestCheckAgreementScoresHigh(t *testing.T) {
	history := historyWith(
		map[string]float64{"communication": 4, "teamwork": 4},
		map[string]float64{"communication": 4, "teamwork": 5},
	)

	result := Check(reference.Ratings{"communication": 4, "teamwork": 4.5}, history, DefaultConfig())
	if result.Score < 0.95 {
		t.Fatalf("expected near-perfect score for matching ratings, got %v", result.Score)
	}
	if len(result.Flags) != 0 {
		t.Fatalf("expected no flags, got %v", result.Flags)
	}
}

func TestCheckLargeDeviationFlagsAndPenalizes(t *testing.T) {
	history := historyWith(
		map[string]float64{"reliability": 5},
		map[string]float64{"reliability": 5},
	)

	result := Check(reference.Ratings{"reliability": 1}, history, DefaultConfig())
	if result.Score >= 0.9 {
		t.Fatalf("expected score below 0.9 for a 4-point deviation, got %v", result.Score)
	}
	if len(result.Flags) != 1 {
		t.Fatalf("expected exactly one flag, got %v", result.Flags)
	}
	if result.Flags[0].Type != reference.FlagKPIDeviation {
		t.Fatalf("expected KPI_DEVIATION flag, got %q", result.Flags[0].Type)
	}
}

func TestCheckOnePointDeviationStaysHigh(t *testing.T) {
	history := historyWith(map[string]float64{"communication": 4})

	result := Check(reference.Ratings{"communication": 3}, history, DefaultConfig())
	if result.Score <= 0.9 {
		t.Fatalf("expected score above 0.9 for a one-point deviation, got %v", result.Score)
	}
	if len(result.Flags) != 0 {
		t.Fatalf("expected no flags, got %v", result.Flags)
	}
}

func TestCheckIgnoresUnsharedKPIs(t *testing.T) {
	history := historyWith(map[string]float64{"leadership": 2})

	result := Check(reference.Ratings{"communication": 5}, history, DefaultConfig())
	if result.Score != 1.0 {
		t.Fatalf("expected score 1.0 when no KPI is shared, got %v", result.Score)
	}
}

func TestCheckScoreStaysBounded(t *testing.T) {
	history := historyWith(
		map[string]float64{"communication": 5, "teamwork": 5, "reliability": 5},
	)

	result := Check(reference.Ratings{"communication": 1, "teamwork": 1, "reliability": 1}, history, DefaultConfig())
	if result.Score < 0 || result.Score > 1 {
		t.Fatalf("score out of bounds: %v", result.Score)
	}
}

func TestApplyContradictions(t *testing.T) {
	result := Result{Score: 0.95, Flags: []reference.Flag{}}
	result.ApplyContradictions([]Contradiction{
		{Span: `"punctual" vs "often late"`, Reason: "opposing claims about punctuality"},
	})

	if math.Abs(result.Score-0.85) > 1e-9 {
		t.Fatalf("expected score 0.85 after one contradiction, got %v", result.Score)
	}
	if len(result.Flags) != 1 || result.Flags[0].Type != reference.FlagContradiction {
		t.Fatalf("expected a CONTRADICTION flag, got %v", result.Flags)
	}
}

func TestApplyContradictionsClampsAtZero(t *testing.T) {
	result := Result{Score: 0.15}
	result.ApplyContradictions([]Contradiction{
		{Span: "a", Reason: "r"},
		{Span: "b", Reason: "r"},
	})
	if result.Score != 0 {
		t.Fatalf("expected score clamped at 0, got %v", result.Score)
	}
}
