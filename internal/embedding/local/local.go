// Package local provides a deterministic offline embedding provider. It is
// the default when no remote provider is configured: identical text always
// produces a bit-identical vector, which keeps historical comparisons
// stable across re-validation.
package local

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/hrkey/refvalid/internal/embedding"
)

// Provider derives unit-length vectors from a SHA-256 keyed byte stream.
// The vector has no semantic meaning beyond being a stable fingerprint of
// the text, which is enough for determinism-sensitive tests and for
// running the pipeline without network access.
type Provider struct {
	dimensions int
}

// New creates a local provider. A non-positive dimensions value falls back
// to the default vector length.
func New(dimensions int) *Provider {
	if dimensions <= 0 {
		dimensions = embedding.DefaultDimensions
	}
	return &Provider{dimensions: dimensions}
}

// Embed produces the deterministic vector for the given text.
func (p *Provider) Embed(_ context.Context, text string) ([]float32, error) {
	if err := embedding.ValidateInput(text); err != nil {
		return nil, err
	}

	vector := make([]float32, p.dimensions)
	seed := sha256.Sum256([]byte(text))

	var norm float64
	block := seed[:]
	counter := uint64(0)
	for i := 0; i < p.dimensions; i++ {
		if i%8 == 0 && i > 0 {
			counter++
			h := sha256.New()
			h.Write(seed[:])
			var c [8]byte
			binary.BigEndian.PutUint64(c[:], counter)
			h.Write(c[:])
			block = h.Sum(nil)
		}
		bits := binary.BigEndian.Uint32(block[(i%8)*4 : (i%8)*4+4])
		// Map the 32-bit word onto [-1, 1).
		v := float64(bits)/float64(math.MaxUint32)*2 - 1
		vector[i] = float32(v)
		norm += v * v
	}

	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vector {
			vector[i] *= scale
		}
	}

	return vector, nil
}

// Dimensions returns the vector length.
func (p *Provider) Dimensions() int { return p.dimensions }

// Provider returns the provider name.
func (p *Provider) Provider() string { return "local" }
