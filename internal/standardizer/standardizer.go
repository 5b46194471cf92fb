// Package standardizer normalizes raw reference narratives into canonical
// text and gates out submissions with no evaluable substance.
package standardizer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	// MinNarrativeLength is the minimum number of characters a narrative
	// must have to be evaluable. Shared with the embedding service.
	MinNarrativeLength = 20

	// MinWordCount is the minimum number of words for a narrative to pass
	// quality validation.
	MinWordCount = 4

	// Runs of the same punctuation mark longer than this are collapsed.
	maxPunctRun = 3

	repetitionRatio    = 0.4
	repetitionMinWords = 6
)

var (
	lineBreaks  = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	smartQuotes = strings.NewReplacer(
		"‘", "'", "’", "'", "‚", "'",
		"“", `"`, "”", `"`, "„", `"`,
	)
	blankLines = regexp.MustCompile(`\n{4,}`)
	wordSplit  = regexp.MustCompile(`[^\p{L}\p{N}']+`)
)

// keyPhrases is the fixed vocabulary of professional competency phrases
// matched by ExtractKeyPhrases. Aligned with the KPI set the scoring side
// works with.
var keyPhrases = []string{
	"team player",
	"strong communicator",
	"attention to detail",
	"problem solver",
	"problem solving",
	"works well under pressure",
	"fast learner",
	"takes initiative",
	"leadership",
	"reliable",
	"punctual",
	"collaborative",
	"technical skills",
	"goes above and beyond",
}

// Standardize converts raw free text into its canonical form: trimmed,
// straight-quoted, single-\n line breaks, no runaway punctuation and a
// capitalized first letter. Empty input returns an empty string. The
// function is idempotent.
func Standardize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	text = lineBreaks.Replace(text)
	text = smartQuotes.Replace(text)
	text = collapsePunctuation(text)
	text = blankLines.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	return capitalizeFirst(text)
}

// QualityResult reports whether a narrative is substantive enough to
// evaluate, with one human-readable issue per failed check.
type QualityResult struct {
	Valid  bool
	Issues []string
}

// ValidateQuality checks the narrative against the minimum length, minimum
// word count and word-repetition thresholds. Issues accumulate; several
// can co-occur.
func ValidateQuality(text string) QualityResult {
	trimmed := strings.TrimSpace(text)
	result := QualityResult{Valid: true}

	if len(trimmed) < MinNarrativeLength {
		result.Valid = false
		result.Issues = append(result.Issues,
			fmt.Sprintf("narrative is too short: %d characters, minimum is %d", len(trimmed), MinNarrativeLength))
	}

	words := splitWords(trimmed)
	if len(words) < MinWordCount {
		result.Valid = false
		result.Issues = append(result.Issues,
			fmt.Sprintf("narrative has only %d words, minimum is %d", len(words), MinWordCount))
	}

	if word, ratio, ok := dominantWord(words); ok {
		result.Valid = false
		result.Issues = append(result.Issues,
			fmt.Sprintf("excessive repetition: %q makes up %.0f%% of the narrative", word, ratio*100))
	}

	return result
}

// ExtractKeyPhrases matches the competency vocabulary against the text.
// Narratives below the quality threshold yield no phrases.
func ExtractKeyPhrases(text string) []string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < MinNarrativeLength {
		return []string{}
	}

	lower := strings.ToLower(Standardize(trimmed))
	found := make([]string, 0)
	for _, phrase := range keyPhrases {
		if strings.Contains(lower, phrase) {
			found = append(found, phrase)
		}
	}
	return found
}

// collapsePunctuation shortens runs of 4+ identical punctuation marks to
// exactly three. Go's regexp has no backreferences, so runs are walked
// manually.
func collapsePunctuation(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	var prev rune
	run := 0
	for _, r := range text {
		if r == prev && unicode.IsPunct(r) {
			run++
			if run > maxPunctRun {
				continue
			}
		} else {
			prev = r
			run = 1
		}
		b.WriteRune(r)
	}
	return b.String()
}

func capitalizeFirst(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func splitWords(text string) []string {
	parts := wordSplit.Split(strings.ToLower(text), -1)
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			words = append(words, p)
		}
	}
	return words
}

// dominantWord reports a word repeated beyond the repetition ratio. Short
// texts are skipped: a few words cannot meaningfully repeat.
func dominantWord(words []string) (string, float64, bool) {
	if len(words) < repetitionMinWords {
		return "", 0, false
	}

	counts := make(map[string]int, len(words))
	top := ""
	for _, w := range words {
		counts[w]++
		if top == "" || counts[w] > counts[top] {
			top = w
		}
	}

	ratio := float64(counts[top]) / float64(len(words))
	if ratio > repetitionRatio {
		return top, ratio, true
	}
	return "", 0, false
}
