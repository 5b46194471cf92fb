// Package embedding maps standardized text to fixed-length vectors and
// provides vector-similarity primitives.
package embedding

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/hrkey/refvalid/internal/reference"
	"github.com/hrkey/refvalid/internal/standardizer"
)

// DefaultDimensions is the vector length used when a provider does not
// dictate one.
const DefaultDimensions = 1536

// Service generates vector embeddings from text. Implementations must be
// deterministic for identical input so historical comparisons survive
// re-validation.
type Service interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
	Provider() string
}

// ValidateInput rejects embedding input below the minimum narrative
// length. Embeddings of degenerate text carry no signal.
func ValidateInput(text string) error {
	if len(strings.TrimSpace(text)) < standardizer.MinNarrativeLength {
		return fmt.Errorf("embedding input of %d characters: %w", len(strings.TrimSpace(text)), reference.ErrTextTooShort)
	}
	return nil
}

// CosineSimilarity computes the dot product over norms of two vectors.
// Identical vectors score 1, opposite vectors -1, orthogonal vectors 0.
// Vectors of different lengths are a programmer error.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("comparing vectors of length %d and %d: %w", len(a), len(b), reference.ErrInvalidVectors)
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
