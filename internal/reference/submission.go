package reference

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Rating scale bounds for KPI ratings.
const (
	RatingMin = 1.0
	RatingMax = 5.0
)

// Ratings maps a KPI name to its numeric rating on the 1-5 scale.
type Ratings map[string]float64

// Keys returns the KPI names in a stable sorted order.
func (r Ratings) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks every rating against the declared scale. Range membership
// is enforced here, at the boundary, rather than trusted from callers.
func (r Ratings) Validate() error {
	for _, kpi := range r.Keys() {
		value := r[kpi]
		if value < RatingMin || value > RatingMax {
			return fmt.Errorf("rating for %q is %v, must be between %v and %v", kpi, value, RatingMin, RatingMax)
		}
	}
	return nil
}

// Submission is a raw third-party reference as received from the intake
// collaborator. It is immutable for the duration of one validation call.
type Submission struct {
	Narrative        string  `json:"narrative" mapstructure:"narrative"`
	KPIRatings       Ratings `json:"kpi_ratings" mapstructure:"kpi_ratings"`
	DetailedFeedback string  `json:"detailed_feedback,omitempty" mapstructure:"detailed_feedback"`
	SubjectID        string  `json:"subject_id" mapstructure:"subject_id"`
	ReferrerEmail    string  `json:"referrer_email" mapstructure:"referrer_email"`
}

// GetSubmissionFromFile loads a raw submission from a JSON file.
func GetSubmissionFromFile(path string) (*Submission, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var submission Submission
	if err := json.NewDecoder(file).Decode(&submission); err != nil {
		return nil, fmt.Errorf("decode submission file %q: %w", path, err)
	}
	return &submission, nil
}

// ReferrerDomain returns the lowercased domain part of the referrer email,
// or an empty string when no domain can be extracted.
func (s *Submission) ReferrerDomain() string {
	email := strings.TrimSpace(strings.ToLower(s.ReferrerEmail))
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return email[at+1:]
}
