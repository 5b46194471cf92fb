// Package gemini provides the Gemini embedding provider backed by the
// Google GenAI API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/hrkey/refvalid/internal/embedding"
	"github.com/hrkey/refvalid/internal/reference"
	"github.com/hrkey/refvalid/internal/utils"
)

const (
	defaultModel = "gemini-embedding-001"
	retryBackoff = 2 * time.Second
)

// Provider wraps the Google GenAI client for embedding generation.
type Provider struct {
	client     *genai.Client
	modelName  string
	dimensions int
	maxRetries int
	logger     *zap.Logger
}

// New creates a Provider configured for the Gemini API backend.
func New(ctx context.Context, apiKey, model string, dimensions, maxRetries int, logger *zap.Logger) (*Provider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if dimensions <= 0 {
		dimensions = embedding.DefaultDimensions
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Provider{
		client:     client,
		modelName:  model,
		dimensions: dimensions,
		maxRetries: maxRetries,
		logger:     logger,
	}, nil
}

// Embed requests an embedding for the given text, retrying transient
// failures before giving up. Failures surface as provider-unavailable so
// the orchestrator can degrade instead of aborting.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("gemini provider is not initialized: %w", reference.ErrProviderUnavailable)
	}
	if err := embedding.ValidateInput(text); err != nil {
		return nil, err
	}

	dims := int32(p.dimensions)
	cfg := &genai.EmbedContentConfig{OutputDimensionality: &dims}

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Debug("retrying embedding request",
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			if err := utils.WaitFor(ctx, retryBackoff); err != nil {
				return nil, fmt.Errorf("waiting before retry: %w", err)
			}
		}

		resp, err := p.client.Models.EmbedContent(ctx, p.modelName, genai.Text(text), cfg)
		if err != nil {
			lastErr = err
			continue
		}

		vector, err := extractVector(resp)
		if err != nil {
			lastErr = err
			continue
		}
		return vector, nil
	}

	return nil, fmt.Errorf("embed content after %d attempts: %v: %w", p.maxRetries+1, lastErr, reference.ErrProviderUnavailable)
}

func extractVector(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, errors.New("gemini api returned no embeddings")
	}
	values := resp.Embeddings[0].Values
	if len(values) == 0 {
		return nil, errors.New("gemini api returned an empty vector")
	}
	return values, nil
}

// Dimensions returns the configured vector length.
func (p *Provider) Dimensions() int { return p.dimensions }

// Provider returns the provider name.
func (p *Provider) Provider() string { return "gemini" }

// Model returns the configured model name.
func (p *Provider) Model() string {
	if p == nil {
		return ""
	}
	return p.modelName
}
