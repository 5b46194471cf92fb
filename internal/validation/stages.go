package validation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hrkey/refvalid/internal/consistency"
	"github.com/hrkey/refvalid/internal/fraud"
	"github.com/hrkey/refvalid/internal/output"
	"github.com/hrkey/refvalid/internal/reference"
	"github.com/hrkey/refvalid/internal/standardizer"
	"github.com/hrkey/refvalid/internal/utils"
)

type standardizeStage struct{}

// newStandardize creates the stage that canonicalizes the narrative and
// extracts key phrases.
func newStandardize() Stage {
	return &standardizeStage{}
}

func (s *standardizeStage) Name() string { return "standardize" }

func (s *standardizeStage) Disable(string) {}

func (s *standardizeStage) IsEnabled() bool { return true }

func (s *standardizeStage) Apply(_ context.Context, deps Deps, st *State) error {
	st.Standardized = standardizer.Standardize(st.Submission.Narrative)
	st.KeyPhrases = standardizer.ExtractKeyPhrases(st.Standardized)

	if deps.Logger != nil {
		deps.Logger.Debug("narrative standardized",
			zap.Int("raw_length", len(st.Submission.Narrative)),
			zap.Int("standardized_length", len(st.Standardized)),
			zap.Strings("key_phrases", st.KeyPhrases),
			zap.String("preview", utils.TruncateForLog(st.Standardized, 120)),
		)
	}
	return nil
}

type qualityStage struct{}

// newQuality creates the fail-fast quality gate. Only a too-short
// narrative is fatal; other quality issues downgrade the record instead.
func newQuality() Stage {
	return &qualityStage{}
}

func (s *qualityStage) Name() string { return "quality" }

func (s *qualityStage) Disable(string) {}

func (s *qualityStage) IsEnabled() bool { return true }

func (s *qualityStage) Apply(_ context.Context, deps Deps, st *State) error {
	st.Quality = standardizer.ValidateQuality(st.Standardized)
	if st.Quality.Valid {
		return nil
	}

	if deps.Logger != nil {
		deps.Logger.Warn("narrative failed quality validation",
			zap.Strings("issues", st.Quality.Issues),
		)
	}

	if len(st.Standardized) < standardizer.MinNarrativeLength {
		return fmt.Errorf("narrative of %d characters: %w", len(st.Standardized), reference.ErrTextTooShort)
	}
	return nil
}

type embeddingStage struct {
	disabled bool
	reason   string
}

// newEmbedding creates the stage that launches embedding generation. The
// vector is requested on a goroutine so consistency and fraud scoring
// proceed while the provider call is in flight; the assemble stage awaits
// the result.
func newEmbedding() Stage {
	return &embeddingStage{}
}

func (s *embeddingStage) Name() string { return "embedding" }

func (s *embeddingStage) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *embeddingStage) IsEnabled() bool { return !s.disabled }

func (s *embeddingStage) Status() Status {
	return Status{Name: s.Name(), Enabled: !s.disabled, Reason: s.reason}
}

func (s *embeddingStage) Apply(ctx context.Context, deps Deps, st *State) error {
	if deps.Embedder == nil {
		st.EmbeddingSkipped = true
		if deps.Logger != nil {
			deps.Logger.Info("embedder is not configured; skipping embedding generation")
		}
		return nil
	}

	st.EmbeddingProvider = deps.Embedder.Provider()

	ch := make(chan embedResult, 1)
	text := st.Standardized
	embedder := deps.Embedder
	go func() {
		vector, err := embedder.Embed(ctx, text)
		ch <- embedResult{vector: vector, err: err}
	}()
	st.embeddingCh = ch

	return nil
}

type consistencyStage struct {
	disabled bool
	reason   string
	cfg      consistency.Config
	history  *reference.History
}

// newConsistency creates the stage comparing the submission against the
// caller-supplied snapshot of prior validated records.
func newConsistency(cfg consistency.Config, history *reference.History) Stage {
	return &consistencyStage{cfg: cfg, history: history}
}

func (s *consistencyStage) Name() string { return "consistency" }

func (s *consistencyStage) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *consistencyStage) IsEnabled() bool { return !s.disabled }

func (s *consistencyStage) Status() Status {
	return Status{Name: s.Name(), Enabled: !s.disabled, Reason: s.reason}
}

func (s *consistencyStage) Apply(_ context.Context, deps Deps, st *State) error {
	result := consistency.Check(st.Submission.KPIRatings, s.history, s.cfg)
	result.ApplyContradictions(consistency.DetectContradictions(st.Standardized))
	st.Consistency = result

	if deps.Logger != nil {
		deps.Logger.Info("consistency checked",
			zap.Float64("consistency_score", result.Score),
			zap.Int("flags", len(result.Flags)),
			zap.Int("prior_records", s.history.Len()),
		)
	}
	return nil
}

type fraudStage struct {
	detector *fraud.Detector
}

// newFraud creates the risk-scoring stage.
func newFraud(detector *fraud.Detector) Stage {
	return &fraudStage{detector: detector}
}

func (s *fraudStage) Name() string { return "fraud" }

func (s *fraudStage) Disable(string) {}

func (s *fraudStage) IsEnabled() bool { return true }

func (s *fraudStage) Apply(_ context.Context, deps Deps, st *State) error {
	st.Fraud = s.detector.Analyze(fraud.Input{
		Text:             st.Standardized,
		Ratings:          st.Submission.KPIRatings,
		ConsistencyScore: st.Consistency.Score,
		ReferrerEmail:    st.Submission.ReferrerEmail,
	})

	if deps.Logger != nil {
		deps.Logger.Info("fraud scored",
			zap.Int("fraud_score", st.Fraud.Overall),
			zap.String("risk_level", st.Fraud.RiskLevel),
		)
	}
	return nil
}

type assembleStage struct {
	generator *output.Generator
}

// newAssemble creates the final stage: await the embedding (fail-soft on
// provider errors) and generate the canonical record.
func newAssemble(generator *output.Generator) Stage {
	return &assembleStage{generator: generator}
}

func (s *assembleStage) Name() string { return "assemble" }

func (s *assembleStage) Disable(string) {}

func (s *assembleStage) IsEnabled() bool { return true }

func (s *assembleStage) Apply(ctx context.Context, deps Deps, st *State) error {
	if st.embeddingCh != nil {
		select {
		case res := <-st.embeddingCh:
			if res.err != nil {
				// Provider outage degrades the record instead of failing
				// the validation.
				st.EmbeddingError = res.err.Error()
				if deps.Logger != nil {
					deps.Logger.Warn("embedding generation failed; continuing without vector",
						zap.Error(res.err),
					)
				}
			} else {
				st.Vector = res.vector
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	st.Record = s.generator.Generate(output.Input{
		Submission:        st.Submission,
		StandardizedText:  st.Standardized,
		Quality:           st.Quality,
		Consistency:       st.Consistency,
		Fraud:             st.Fraud,
		Embedding:         st.Vector,
		EmbeddingProvider: st.EmbeddingProvider,
		EmbeddingSkipped:  st.EmbeddingSkipped,
		EmbeddingError:    st.EmbeddingError,
		KeyPhrases:        st.KeyPhrases,
	})
	return nil
}
