package validation

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrkey/refvalid/internal/consistency"
	"github.com/hrkey/refvalid/internal/fraud"
	"github.com/hrkey/refvalid/internal/output"
	"github.com/hrkey/refvalid/internal/reference"
)

const skipRequestedMsg = "skip requested via options"

// Config bundles the tunables for one validator instance. Fraud weights
// and status thresholds come from the same table so the detector and the
// status rule stay consistent.
type Config struct {
	Fraud       fraud.Config       `mapstructure:"fraud"`
	Consistency consistency.Config `mapstructure:"consistency"`
}

// DefaultConfig returns the standard validator configuration.
func DefaultConfig() Config {
	return Config{
		Fraud:       fraud.DefaultConfig(),
		Consistency: consistency.DefaultConfig(),
	}
}

// Options control a single validation call. The zero value runs the full
// pipeline with no injected history.
type Options struct {
	// SkipEmbeddings bypasses embedding generation entirely; the record's
	// vector is nil.
	SkipEmbeddings bool
	// SkipConsistencyCheck treats the submission as having no history.
	SkipConsistencyCheck bool
	// PreviousReferences injects the subject's prior validated records.
	// The snapshot is read-only; determinism is guaranteed relative to it,
	// not to real-time subject history.
	PreviousReferences *reference.History
}

// Validator is the sole entry point external callers use. Each call is a
// self-contained computation over its inputs; validators are safe for
// concurrent use.
type Validator struct {
	cfg       Config
	deps      Deps
	detector  *fraud.Detector
	generator *output.Generator
	version   string
}

// New creates a validator from the supplied configuration and
// dependencies.
func New(cfg Config, deps Deps, version string) *Validator {
	detector := fraud.New(cfg.Fraud)
	if version == "" {
		version = "unknown"
	}

	return &Validator{
		cfg:       cfg,
		deps:      deps,
		detector:  detector,
		generator: output.NewGenerator(detector.Thresholds()),
		version:   version,
	}
}

// Thresholds exposes the loaded threshold table, e.g. for the storage
// adapter.
func (v *Validator) Thresholds() fraud.Thresholds {
	return v.detector.Thresholds()
}

// ValidateReference runs the full pipeline over one raw submission and
// returns the validated record. The only user-visible failure is a
// narrative below the minimum length; everything else produces a
// degraded-but-valid record.
func (v *Validator) ValidateReference(ctx context.Context, submission *reference.Submission, opts Options) (*reference.Record, error) {
	if submission == nil {
		return nil, errors.New("submission is required")
	}
	if err := submission.KPIRatings.Validate(); err != nil {
		return nil, fmt.Errorf("kpi ratings: %w", err)
	}

	st := &State{
		Submission: submission,
		// No history and no flags until the stages say otherwise.
		Consistency:      consistency.Result{Score: 1.0, Flags: []reference.Flag{}},
		EmbeddingSkipped: opts.SkipEmbeddings,
	}

	stages := v.buildStages(opts)

	if err := Run(ctx, v.deps, stages, st); err != nil {
		return nil, err
	}

	return st.Record, nil
}

// buildStages assembles the stage list for one call, disabling stages the
// options skip. Embedding runs concurrently with consistency and fraud;
// assemble awaits it.
func (v *Validator) buildStages(opts Options) []Stage {
	embeddingStage := newEmbedding()
	if opts.SkipEmbeddings {
		embeddingStage.Disable(skipRequestedMsg)
	}

	history := opts.PreviousReferences
	consistencyStage := newConsistency(v.cfg.Consistency, history)
	if opts.SkipConsistencyCheck {
		consistencyStage.Disable(skipRequestedMsg)
	}

	return []Stage{
		newStandardize(),
		newQuality(),
		embeddingStage,
		consistencyStage,
		newFraud(v.detector),
		newAssemble(v.generator),
	}
}

// Info describes a validator instance for operator introspection.
type Info struct {
	Version            string           `json:"version"`
	EnabledFeatures    []string         `json:"enabled_features"`
	EmbeddingProvider  string           `json:"embedding_provider,omitempty"`
	Thresholds         fraud.Thresholds `json:"thresholds"`
	Weights            fraud.Weights    `json:"weights"`
	DeviationThreshold float64          `json:"deviation_threshold"`
}

// GetInfo reports the version, enabled features and loaded thresholds.
func (v *Validator) GetInfo() Info {
	features := []string{"standardization", "quality-validation", "consistency-check", "contradiction-detection", "fraud-scoring"}
	info := Info{
		Version:            v.version,
		Thresholds:         v.detector.Thresholds(),
		Weights:            v.detector.Weights(),
		DeviationThreshold: v.cfg.Consistency.DeviationThreshold,
	}
	if info.DeviationThreshold <= 0 {
		info.DeviationThreshold = consistency.DefaultDeviationThreshold
	}

	if v.deps.Embedder != nil {
		features = append(features, "embeddings")
		info.EmbeddingProvider = v.deps.Embedder.Provider()
	}
	info.EnabledFeatures = features

	return info
}
