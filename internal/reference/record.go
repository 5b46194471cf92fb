package reference

import (
	"encoding/json"
	"os"
	"strings"
	"time"
)

// Status is the final categorical verdict for a validated reference.
// It is always derived from the scores that produced it, never set
// independently.
type Status string

const (
	StatusApproved             Status = "APPROVED"
	StatusApprovedWithWarnings Status = "APPROVED_WITH_WARNINGS"
	StatusRejectedHighFraud    Status = "REJECTED_HIGH_FRAUD_RISK"
	StatusRejectedCritical     Status = "REJECTED_CRITICAL_ISSUES"
	StatusRejectedInconsistent Status = "REJECTED_INCONSISTENT"
)

// Approved reports whether the status counts as passed for downstream
// scoring (APPROVED and APPROVED_WITH_WARNINGS).
func (s Status) Approved() bool {
	return strings.HasPrefix(string(s), "APPROVED")
}

// Flag describes one anomaly found during validation.
type Flag struct {
	Type   string `json:"type" mapstructure:"type"`
	Detail string `json:"detail" mapstructure:"detail"`
}

// Flag types emitted by the consistency checker.
const (
	FlagKPIDeviation  = "KPI_DEVIATION"
	FlagContradiction = "CONTRADICTION"
)

// Dimension pairs a KPI rating with the confidence assigned to it.
type Dimension struct {
	Rating     float64 `json:"rating" mapstructure:"rating"`
	Confidence float64 `json:"confidence" mapstructure:"confidence"`
}

// Metadata carries record bookkeeping fields.
type Metadata struct {
	RecordID          string    `json:"record_id" mapstructure:"record_id"`
	SubjectID         string    `json:"subject_id" mapstructure:"subject_id"`
	ValidatedAt       time.Time `json:"validated_at" mapstructure:"validated_at"`
	EmbeddingProvider string    `json:"embedding_provider,omitempty" mapstructure:"embedding_provider"`
	EmbeddingSkipped  bool      `json:"embedding_skipped,omitempty" mapstructure:"embedding_skipped"`
	EmbeddingError    string    `json:"embedding_error,omitempty" mapstructure:"embedding_error"`
	QualityIssues     []string  `json:"quality_issues,omitempty" mapstructure:"quality_issues"`
	KeyPhrases        []string  `json:"key_phrases,omitempty" mapstructure:"key_phrases"`
}

// Record is the validated reference artifact downstream systems consume.
// It is created once per submission and never mutated in place.
type Record struct {
	StandardizedText     string               `json:"standardized_text" mapstructure:"standardized_text"`
	StructuredDimensions map[string]Dimension `json:"structured_dimensions" mapstructure:"structured_dimensions"`
	ConsistencyScore     float64              `json:"consistency_score" mapstructure:"consistency_score"`
	FraudScore           int                  `json:"fraud_score" mapstructure:"fraud_score"`
	FraudComponents      map[string]int       `json:"fraud_components,omitempty" mapstructure:"fraud_components"`
	RiskLevel            string               `json:"risk_level,omitempty" mapstructure:"risk_level"`
	Confidence           float64              `json:"confidence" mapstructure:"confidence"`
	EmbeddingVector      []float32            `json:"embedding_vector,omitempty" mapstructure:"embedding_vector"`
	ValidationStatus     Status               `json:"validation_status" mapstructure:"validation_status"`
	Flags                []Flag               `json:"flags,omitempty" mapstructure:"flags"`
	Metadata             Metadata             `json:"metadata" mapstructure:"metadata"`
}

// DumpToTmpFile writes the record as indented JSON to a temporary file and
// returns its path.
func (r *Record) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "reference_record_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}
