package output

import (
	"time"

	"github.com/hrkey/refvalid/internal/fraud"
	"github.com/hrkey/refvalid/internal/reference"
)

// ScoringEngineView is the trimmed record the downstream HR scoring engine
// consumes.
type ScoringEngineView struct {
	KPIRatings       map[string]float64 `json:"kpi_ratings"`
	Narrative        string             `json:"narrative"`
	ConfidenceScore  float64            `json:"confidence_score"`
	ValidationPassed bool               `json:"validation_passed"`
}

// ForScoringEngine exposes only the fields the scoring engine needs.
func ForScoringEngine(record *reference.Record) ScoringEngineView {
	ratings := make(map[string]float64, len(record.StructuredDimensions))
	for kpi, dim := range record.StructuredDimensions {
		ratings[kpi] = dim.Rating
	}

	return ScoringEngineView{
		KPIRatings:       ratings,
		Narrative:        record.StandardizedText,
		ConfidenceScore:  record.Confidence,
		ValidationPassed: record.ValidationStatus.Approved(),
	}
}

// PublicView is the externally safe projection of a record. It carries no
// embedding field at all, so a vector can never leak through it.
type PublicView struct {
	Status           reference.Status               `json:"status"`
	Confidence       float64                        `json:"confidence"`
	StandardizedText string                         `json:"standardized_text"`
	Dimensions       map[string]reference.Dimension `json:"dimensions"`
	ConsistencyScore float64                        `json:"consistency_score"`
	FraudScore       int                            `json:"fraud_score"`
	RiskLevel        string                         `json:"risk_level"`
	ValidatedAt      time.Time                      `json:"validated_at"`
	Internal         *InternalView                  `json:"internal,omitempty"`
}

// InternalView holds the signal breakdowns exposed only on request.
type InternalView struct {
	FraudComponents map[string]int   `json:"fraud_components"`
	Flags           []reference.Flag `json:"flags"`
	QualityIssues   []string         `json:"quality_issues,omitempty"`
	KeyPhrases      []string         `json:"key_phrases,omitempty"`
}

// ForPublicAPI strips the embedding vector unconditionally and the
// internal signal breakdowns unless explicitly requested.
func ForPublicAPI(record *reference.Record, includeInternal bool) PublicView {
	view := PublicView{
		Status:           record.ValidationStatus,
		Confidence:       record.Confidence,
		StandardizedText: record.StandardizedText,
		Dimensions:       record.StructuredDimensions,
		ConsistencyScore: record.ConsistencyScore,
		FraudScore:       record.FraudScore,
		RiskLevel:        record.RiskLevel,
		ValidatedAt:      record.Metadata.ValidatedAt,
	}

	if includeInternal {
		view.Internal = &InternalView{
			FraudComponents: record.FraudComponents,
			Flags:           record.Flags,
			QualityIssues:   record.Metadata.QualityIssues,
			KeyPhrases:      record.Metadata.KeyPhrases,
		}
	}

	return view
}

// StoragePayload matches the persistence collaborator's column names. The
// layer stores the full record verbatim under validated_data and keys the
// scalar columns it filters on.
type StoragePayload struct {
	RecordID         string            `json:"record_id"`
	SubjectID        string            `json:"subject_id"`
	ValidatedData    *reference.Record `json:"validated_data"`
	ValidationStatus reference.Status  `json:"validation_status"`
	FraudScore       int               `json:"fraud_score"`
	ConsistencyScore float64           `json:"consistency_score"`
	IsFlagged        bool              `json:"is_flagged"`
}

// ForStorage maps a record onto the storage layer's field names, deriving
// is_flagged from the same threshold table the status rule uses.
func ForStorage(record *reference.Record, thresholds fraud.Thresholds) StoragePayload {
	if thresholds == (fraud.Thresholds{}) {
		thresholds = fraud.DefaultConfig().Thresholds
	}

	return StoragePayload{
		RecordID:         record.Metadata.RecordID,
		SubjectID:        record.Metadata.SubjectID,
		ValidatedData:    record,
		ValidationStatus: record.ValidationStatus,
		FraudScore:       record.FraudScore,
		ConsistencyScore: record.ConsistencyScore,
		IsFlagged:        record.FraudScore >= thresholds.FlagScore || !record.ValidationStatus.Approved(),
	}
}
