package standardizer

import (
	"strings"
	"testing"
)

func TestStandardizeNormalizesText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "trims and capitalizes",
			in:   "  she did great work  ",
			want: "She did great work",
		},
		{
			name: "collapses repeated punctuation",
			in:   "wow!!!!! such effort?????",
			want: "Wow!!! such effort???",
		},
		{
			name: "normalizes carriage returns",
			in:   "first line\r\nsecond line\rthird line",
			want: "First line\nsecond line\nthird line",
		},
		{
			name: "collapses runs of blank lines",
			in:   "first paragraph\n\n\n\n\nsecond paragraph",
			want: "First paragraph\n\nsecond paragraph",
		},
		{
			name: "straightens smart quotes",
			in:   "“great” work on the client’s project",
			want: "\"great\" work on the client's project",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Standardize(tc.in)
			if got != tc.want {
				t.Fatalf("Standardize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestStandardizeEmptyInput(t *testing.T) {
	if got := Standardize(""); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := Standardize("   \n\t  "); got != "" {
		t.Fatalf("expected empty string for whitespace input, got %q", got)
	}
}

func TestStandardizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"  messy text!!!!! with “quotes”\r\n\r\n\r\n\r\nand paragraphs  ",
		"already clean text",
		"Line one\n\ntwo",
	}

	for _, in := range inputs {
		once := Standardize(in)
		twice := Standardize(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestValidateQualityTooShort(t *testing.T) {
	result := ValidateQuality("Good.")
	if result.Valid {
		t.Fatalf("expected invalid result for short text")
	}
	if len(result.Issues) != 2 {
		t.Fatalf("expected length and word count issues, got %v", result.Issues)
	}
	if !strings.Contains(result.Issues[0], "too short") {
		t.Fatalf("expected a too short issue, got %q", result.Issues[0])
	}
}

func TestValidateQualityRepetition(t *testing.T) {
	result := ValidateQuality("great great great great great great great work")
	if result.Valid {
		t.Fatalf("expected invalid result for repetitive text")
	}
	if len(result.Issues) != 1 {
		t.Fatalf("expected only the repetition issue, got %v", result.Issues)
	}
	if !strings.Contains(result.Issues[0], "repetition") {
		t.Fatalf("expected a repetition issue, got %q", result.Issues[0])
	}
}

func TestValidateQualityPasses(t *testing.T) {
	result := ValidateQuality("She communicates clearly and delivers her work on time every week.")
	if !result.Valid {
		t.Fatalf("expected valid result, got issues: %v", result.Issues)
	}
	if len(result.Issues) != 0 {
		t.Fatalf("expected no issues, got %v", result.Issues)
	}
}

func TestExtractKeyPhrases(t *testing.T) {
	phrases := ExtractKeyPhrases("A true team player, reliable and punctual in every engagement.")
	want := map[string]bool{"team player": true, "reliable": true, "punctual": true}
	if len(phrases) != len(want) {
		t.Fatalf("expected %d phrases, got %v", len(want), phrases)
	}
	for _, p := range phrases {
		if !want[p] {
			t.Fatalf("unexpected phrase %q in %v", p, phrases)
		}
	}
}

func TestExtractKeyPhrasesShortText(t *testing.T) {
	if phrases := ExtractKeyPhrases("team player"); len(phrases) != 0 {
		t.Fatalf("expected no phrases for short text, got %v", phrases)
	}
}
