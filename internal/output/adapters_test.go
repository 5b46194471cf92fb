package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hrkey/refvalid/internal/fraud"
	"github.com/hrkey/refvalid/internal/reference"
)

func sampleRecord() *reference.Record {
	return &reference.Record{
		StandardizedText: "A dependable colleague who communicates clearly.",
		StructuredDimensions: map[string]reference.Dimension{
			"communication": {Rating: 5, Confidence: 0.9},
			"reliability":   {Rating: 4, Confidence: 0.85},
		},
		ConsistencyScore: 0.95,
		FraudScore:       10,
		FraudComponents:  map[string]int{fraud.SignalTextQuality: 5, fraud.SignalReferrer: 5},
		RiskLevel:        fraud.RiskLow,
		Confidence:       0.8,
		EmbeddingVector:  []float32{0.5, 0.5},
		ValidationStatus: reference.StatusApproved,
		Flags:            []reference.Flag{},
		Metadata: reference.Metadata{
			RecordID:          "rec-1",
			SubjectID:         "subject-7",
			EmbeddingProvider: "local",
		},
	}
}

func TestForScoringEngine(t *testing.T) {
	view := ForScoringEngine(sampleRecord())

	if !view.ValidationPassed {
		t.Fatalf("expected validation passed for an approved record")
	}
	if view.ConfidenceScore != 0.8 {
		t.Fatalf("confidence = %v, want 0.8", view.ConfidenceScore)
	}
	if view.KPIRatings["communication"] != 5 || view.KPIRatings["reliability"] != 4 {
		t.Fatalf("unexpected ratings: %v", view.KPIRatings)
	}

	record := sampleRecord()
	record.ValidationStatus = reference.StatusRejectedHighFraud
	if ForScoringEngine(record).ValidationPassed {
		t.Fatalf("expected validation failed for a rejected record")
	}
}

func TestForScoringEngineWarningsStillPass(t *testing.T) {
	record := sampleRecord()
	record.ValidationStatus = reference.StatusApprovedWithWarnings
	if !ForScoringEngine(record).ValidationPassed {
		t.Fatalf("expected approved-with-warnings to pass validation")
	}
}

func TestForPublicAPINeverLeaksEmbedding(t *testing.T) {
	for _, includeInternal := range []bool{false, true} {
		view := ForPublicAPI(sampleRecord(), includeInternal)

		raw, err := json.Marshal(view)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(strings.ToLower(string(raw)), "embedding") {
			t.Fatalf("public view leaked embedding data: %s", raw)
		}
	}
}

func TestForPublicAPIInternalToggle(t *testing.T) {
	view := ForPublicAPI(sampleRecord(), false)
	if view.Internal != nil {
		t.Fatalf("expected no internal section by default")
	}

	view = ForPublicAPI(sampleRecord(), true)
	if view.Internal == nil {
		t.Fatalf("expected internal section when requested")
	}
	if view.Internal.FraudComponents[fraud.SignalTextQuality] != 5 {
		t.Fatalf("unexpected fraud components: %v", view.Internal.FraudComponents)
	}
}

func TestForStorage(t *testing.T) {
	payload := ForStorage(sampleRecord(), fraud.Thresholds{})

	if payload.RecordID != "rec-1" || payload.SubjectID != "subject-7" {
		t.Fatalf("unexpected identifiers: %+v", payload)
	}
	if payload.IsFlagged {
		t.Fatalf("expected clean approved record not flagged")
	}
	if payload.ValidatedData == nil || payload.ValidatedData.FraudScore != payload.FraudScore {
		t.Fatalf("expected the full record under validated_data")
	}
}

func TestForStorageFlagging(t *testing.T) {
	elevated := sampleRecord()
	elevated.FraudScore = 35
	elevated.ValidationStatus = reference.StatusApprovedWithWarnings
	if !ForStorage(elevated, fraud.Thresholds{}).IsFlagged {
		t.Fatalf("expected elevated fraud score to flag the record")
	}

	rejected := sampleRecord()
	rejected.ValidationStatus = reference.StatusRejectedInconsistent
	if !ForStorage(rejected, fraud.Thresholds{}).IsFlagged {
		t.Fatalf("expected rejected record to be flagged")
	}
}
