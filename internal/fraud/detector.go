// Package fraud computes a composite 0-100 risk score for a reference
// submission from narrative quality, rating-pattern anomalies, referrer
// identity and consistency feed-through.
package fraud

import (
	"math"
	"strings"

	"github.com/hrkey/refvalid/internal/reference"
	"github.com/hrkey/refvalid/internal/standardizer"
)

// Input carries the signals the detector scores. It is independent of the
// other pipeline components: everything arrives by value.
type Input struct {
	Text             string
	Ratings          reference.Ratings
	ConsistencyScore float64
	ReferrerEmail    string
}

// Assessment is the explainable result: the overall score, the per-signal
// sub-scores that sum into it, and the derived risk bucket.
type Assessment struct {
	Overall    int            `json:"overall_score"`
	Components map[string]int `json:"components"`
	RiskLevel  string         `json:"risk_level"`
}

// Detector scores submissions against a fixed weight table.
type Detector struct {
	cfg        Config
	disposable map[string]struct{}
}

// New creates a detector. Zero-valued weights fall back to the defaults so
// a partial config cannot silently disable a signal.
func New(cfg Config) *Detector {
	defaults := DefaultConfig()
	if cfg.Weights == (Weights{}) {
		cfg.Weights = defaults.Weights
	}
	if cfg.Thresholds == (Thresholds{}) {
		cfg.Thresholds = defaults.Thresholds
	}
	if len(cfg.DisposableDomains) == 0 {
		cfg.DisposableDomains = defaults.DisposableDomains
	}

	disposable := make(map[string]struct{}, len(cfg.DisposableDomains))
	for _, d := range cfg.DisposableDomains {
		disposable[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}

	return &Detector{cfg: cfg, disposable: disposable}
}

// Thresholds exposes the loaded threshold table for the status rule and
// operator introspection.
func (d *Detector) Thresholds() Thresholds { return d.cfg.Thresholds }

// Weights exposes the loaded weight table.
func (d *Detector) Weights() Weights { return d.cfg.Weights }

// Score returns only the overall risk score.
func (d *Detector) Score(input Input) int {
	return d.Analyze(input).Overall
}

// Analyze computes every sub-score and the overall assessment.
func (d *Detector) Analyze(input Input) Assessment {
	components := map[string]int{
		SignalTextQuality:   scale(d.textQuality(input.Text), d.cfg.Weights.TextQuality),
		SignalRatingPattern: scale(d.ratingPattern(input.Ratings), d.cfg.Weights.RatingPattern),
		SignalReferrer:      scale(d.referrerIdentity(input.ReferrerEmail), d.cfg.Weights.Referrer),
		SignalConsistency:   scale(d.consistencyFeed(input.ConsistencyScore), d.cfg.Weights.Consistency),
	}

	overall := 0
	for _, sub := range components {
		overall += sub
	}
	if overall > 100 {
		overall = 100
	}
	if overall < 0 {
		overall = 0
	}

	return Assessment{
		Overall:    overall,
		Components: components,
		RiskLevel:  d.riskLevel(overall),
	}
}

func (d *Detector) riskLevel(score int) string {
	t := d.cfg.Thresholds
	switch {
	case score >= t.RejectScore:
		return RiskCritical
	case score >= t.HighScore:
		return RiskHigh
	case score >= t.FlagScore:
		return RiskMedium
	default:
		return RiskLow
	}
}

// textQuality returns the risk fraction for the narrative. Low-substance
// text is the strongest fabrication signal.
func (d *Detector) textQuality(text string) float64 {
	if quality := standardizer.ValidateQuality(text); !quality.Valid {
		return 1.0
	}

	switch length := len(strings.TrimSpace(text)); {
	case length < 100:
		return 0.375
	case length < 200:
		return 0.125
	default:
		return 0
	}
}

// ratingPattern flags unrealistically uniform feedback across many KPIs.
func (d *Detector) ratingPattern(ratings reference.Ratings) float64 {
	if len(ratings) < 3 {
		return 0
	}

	first := true
	uniform := true
	var value float64
	for _, kpi := range ratings.Keys() {
		if first {
			value = ratings[kpi]
			first = false
			continue
		}
		if ratings[kpi] != value {
			uniform = false
			break
		}
	}

	switch {
	case uniform && value == reference.RatingMax:
		return 1.0
	case uniform && value == reference.RatingMin:
		return 0.6
	case uniform:
		return 0.4
	default:
		return 0
	}
}

// referrerIdentity raises risk for throwaway email domains and missing
// referrer identities.
func (d *Detector) referrerIdentity(email string) float64 {
	email = strings.TrimSpace(strings.ToLower(email))
	at := strings.LastIndex(email, "@")
	if email == "" || at <= 0 || at == len(email)-1 {
		return 0.5
	}

	if _, ok := d.disposable[email[at+1:]]; ok {
		return 1.0
	}
	return 0
}

// consistencyFeed converts a low consistency score into added risk.
func (d *Detector) consistencyFeed(score float64) float64 {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return 1 - score
}

func scale(fraction float64, weight int) int {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return int(math.Round(fraction * float64(weight)))
}
