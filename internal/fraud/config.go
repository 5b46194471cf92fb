package fraud

// Signal names used as keys in the assessment components map.
const (
	SignalTextQuality   = "text_quality"
	SignalRatingPattern = "rating_pattern"
	SignalReferrer      = "referrer_identity"
	SignalConsistency   = "consistency"
)

// Risk levels bucketing the overall score.
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// Weights is the maximum contribution of each signal to the overall score.
type Weights struct {
	TextQuality   int `mapstructure:"text-quality"`
	RatingPattern int `mapstructure:"rating-pattern"`
	Referrer      int `mapstructure:"referrer"`
	Consistency   int `mapstructure:"consistency"`
}

// Thresholds is the single table of score boundaries shared by the fraud
// detector's risk buckets and the output generator's status rule, so the
// two can never drift apart.
type Thresholds struct {
	// FlagScore is where records start being flagged (medium risk,
	// APPROVED_WITH_WARNINGS, is_flagged in storage).
	FlagScore int `mapstructure:"flag-score"`
	// HighScore is the high-risk bucket boundary.
	HighScore int `mapstructure:"high-score"`
	// RejectScore is where validation rejects outright.
	RejectScore int `mapstructure:"reject-score"`
	// RejectConsistency is the consistency score below which a record is
	// rejected as inconsistent.
	RejectConsistency float64 `mapstructure:"reject-consistency"`
}

// Config bundles the weights, thresholds and referrer-identity data for
// one detector instance.
type Config struct {
	Weights           Weights    `mapstructure:"weights"`
	Thresholds        Thresholds `mapstructure:"thresholds"`
	DisposableDomains []string   `mapstructure:"disposable-domains"`
}

// DefaultConfig returns the standard weight and threshold table.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			TextQuality:   40,
			RatingPattern: 25,
			Referrer:      20,
			Consistency:   15,
		},
		Thresholds: Thresholds{
			FlagScore:         30,
			HighScore:         50,
			RejectScore:       70,
			RejectConsistency: 0.4,
		},
		DisposableDomains: []string{
			"mailinator.com",
			"guerrillamail.com",
			"10minutemail.com",
			"tempmail.com",
			"temp-mail.org",
			"throwaway.email",
			"yopmail.com",
			"trashmail.com",
			"sharklasers.com",
			"getnada.com",
		},
	}
}
