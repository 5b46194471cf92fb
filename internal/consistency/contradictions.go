package consistency

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hrkey/refvalid/internal/standardizer"
)

// Contradiction points at a pair of opposing claims about the same
// attribute found in the narrative.
type Contradiction struct {
	Span   string
	Reason string
}

// contradictionPatterns pairs positive and negative claims per attribute.
// The heuristic is pattern-based and best-effort; nuanced feedback can
// trip it, so callers treat matches as flags, never as a hard gate.
var contradictionPatterns = []struct {
	attribute string
	positive  *regexp.Regexp
	negative  *regexp.Regexp
}{
	{
		attribute: "punctuality",
		positive:  regexp.MustCompile(`\b(?:always punctual|punctual|always on time|never late)\b`),
		negative:  regexp.MustCompile(`\b(?:often late|always late|frequently late|rarely on time|never on time)\b`),
	},
	{
		attribute: "reliability",
		positive:  regexp.MustCompile(`\b(?:reliable|dependable)\b`),
		negative:  regexp.MustCompile(`\b(?:unreliable|not reliable|undependable|cannot be relied on)\b`),
	},
	{
		attribute: "teamwork",
		positive:  regexp.MustCompile(`\b(?:team player|collaborative|works well with(?: the)? team|great collaborator)\b`),
		negative:  regexp.MustCompile(`\b(?:not a team player|works poorly with others|struggles? to collaborate|difficult to work with)\b`),
	},
	{
		attribute: "work ethic",
		positive:  regexp.MustCompile(`\b(?:hard[- ]?working|diligent|dedicated)\b`),
		negative:  regexp.MustCompile(`\b(?:lazy|careless|sloppy|cuts corners)\b`),
	},
	{
		attribute: "communication",
		positive:  regexp.MustCompile(`\b(?:strong communicator|communicates? (?:clearly|well)|excellent communication)\b`),
		negative:  regexp.MustCompile(`\b(?:poor communicator|communicates? poorly|poor communication)\b`),
	},
}

// DetectContradictions scans the text for opposing claims about the same
// attribute. Text below the quality threshold yields no results, since
// contradiction detection on degenerate text is unreliable.
func DetectContradictions(text string) []Contradiction {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < standardizer.MinNarrativeLength {
		return []Contradiction{}
	}

	lower := strings.ToLower(trimmed)
	found := make([]Contradiction, 0)

	for _, pattern := range contradictionPatterns {
		negSpans := pattern.negative.FindAllStringIndex(lower, -1)
		if len(negSpans) == 0 {
			continue
		}

		posSpans := pattern.positive.FindAllStringIndex(lower, -1)
		pos := firstOutside(posSpans, negSpans)
		if pos == nil {
			continue
		}

		neg := negSpans[0]
		found = append(found, Contradiction{
			Span:   fmt.Sprintf("%q vs %q", lower[pos[0]:pos[1]], lower[neg[0]:neg[1]]),
			Reason: fmt.Sprintf("opposing claims about %s", pattern.attribute),
		})
	}

	return found
}

// firstOutside returns the first candidate span that does not fall inside
// any of the exclusion spans. A positive phrase matched inside a negated
// one ("reliable" within "not reliable") is no contradiction.
func firstOutside(candidates, exclusions [][]int) []int {
	for _, c := range candidates {
		inside := false
		for _, e := range exclusions {
			if c[0] >= e[0] && c[1] <= e[1] {
				inside = true
				break
			}
		}
		if !inside {
			return c
		}
	}
	return nil
}
