package gemini

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/hrkey/refvalid/internal/reference"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(context.Background(), "   ", "", 0, 0, nil); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}

func TestEmbedUninitializedProvider(t *testing.T) {
	var p *Provider
	_, err := p.Embed(context.Background(), "a narrative long enough to embed")
	if !errors.Is(err, reference.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestExtractVector(t *testing.T) {
	vector, err := extractVector(&genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{Values: []float32{0.1, 0.2}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vector) != 2 || vector[0] != 0.1 {
		t.Fatalf("unexpected vector: %v", vector)
	}
}

func TestExtractVectorEmptyResponses(t *testing.T) {
	cases := []struct {
		name string
		resp *genai.EmbedContentResponse
	}{
		{name: "nil response", resp: nil},
		{name: "no embeddings", resp: &genai.EmbedContentResponse{}},
		{name: "nil embedding", resp: &genai.EmbedContentResponse{Embeddings: []*genai.ContentEmbedding{nil}}},
		{name: "empty vector", resp: &genai.EmbedContentResponse{Embeddings: []*genai.ContentEmbedding{{}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := extractVector(tc.resp); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestProviderAccessors(t *testing.T) {
	p := &Provider{modelName: "gemini-embedding-001", dimensions: 768}
	if p.Provider() != "gemini" {
		t.Fatalf("provider = %q, want gemini", p.Provider())
	}
	if p.Dimensions() != 768 {
		t.Fatalf("dimensions = %d, want 768", p.Dimensions())
	}
	if p.Model() != "gemini-embedding-001" {
		t.Fatalf("model = %q", p.Model())
	}

	var nilProvider *Provider
	if nilProvider.Model() != "" {
		t.Fatalf("expected empty model for nil provider")
	}
}
