// Package validation orchestrates the reference validation pipeline:
// standardize, quality gate, then embedding, consistency and fraud as
// independent stages, assembled into one validated record.
package validation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hrkey/refvalid/internal/consistency"
	"github.com/hrkey/refvalid/internal/embedding"
	"github.com/hrkey/refvalid/internal/fraud"
	"github.com/hrkey/refvalid/internal/reference"
	"github.com/hrkey/refvalid/internal/standardizer"
)

// Stage represents a single validation step applied to the in-flight
// state.
type Stage interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(ctx context.Context, deps Deps, st *State) error
}

// Deps aggregates dependencies shared across all validation stages.
type Deps struct {
	Logger   *zap.Logger
	Embedder embedding.Service
}

// State is the in-flight data of one validation call. Each stage writes
// only its own fields; no stage mutates another's output.
type State struct {
	Submission   *reference.Submission
	Standardized string
	Quality      standardizer.QualityResult
	KeyPhrases   []string

	Consistency consistency.Result
	Fraud       fraud.Assessment

	Vector            []float32
	EmbeddingProvider string
	EmbeddingSkipped  bool
	EmbeddingError    string

	Record *reference.Record

	embeddingCh chan embedResult
}

type embedResult struct {
	vector []float32
	err    error
}

// Status represents runtime information about a stage.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
}

// statusProvider is implemented by stages that can supply a disable
// reason.
type statusProvider interface {
	Status() Status
}

// Run executes the supplied stages sequentially over the state, logging
// one structured line per stage.
func Run(ctx context.Context, deps Deps, stages []Stage, st *State) error {
	for _, stage := range stages {
		if !stage.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Info("stage disabled", zap.String("name", stage.Name()))
			}
			continue
		}

		if err := stage.Apply(ctx, deps, st); err != nil {
			return fmt.Errorf("%s: %w", stage.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("validation step", zap.String("name", stage.Name()))
		}
	}

	return nil
}

// Describe returns status entries for the provided stages.
func Describe(stages []Stage) []Status {
	statuses := make([]Status, 0, len(stages))
	for _, stage := range stages {
		if reporter, ok := stage.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    stage.Name(),
			Enabled: stage.IsEnabled(),
		})
	}
	return statuses
}
