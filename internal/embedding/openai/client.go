// Package openai provides the OpenAI embedding provider over the REST API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hrkey/refvalid/internal/embedding"
	"github.com/hrkey/refvalid/internal/reference"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "text-embedding-3-small"
	defaultTimeout = 60 * time.Second
)

// Provider generates embeddings through the OpenAI embeddings endpoint.
type Provider struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	model      string
	dimensions int
}

// New creates an OpenAI embedding provider.
func New(apiKey, baseURL, model string, dimensions int) (*Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	if dimensions <= 0 {
		dimensions = embedding.DefaultDimensions
	}

	return &Provider{
		client:     &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		dimensions: dimensions,
	}, nil
}

type embedRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Embed requests an embedding for the given text. API and transport
// failures surface as provider-unavailable.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := embedding.ValidateInput(text); err != nil {
		return nil, err
	}

	reqBody := embedRequest{
		Model: p.model,
		Input: []string{text},
	}
	if strings.HasPrefix(p.model, "text-embedding-3") {
		reqBody.Dimensions = p.dimensions
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embeddings", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %v: %w", err, reference.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %v: %w", err, reference.ErrProviderUnavailable)
	}

	var embedResp embedResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, fmt.Errorf("decode response: %v: %w", err, reference.ErrProviderUnavailable)
	}

	if embedResp.Error != nil {
		return nil, fmt.Errorf("openai error: %s: %w", embedResp.Error.Message, reference.ErrProviderUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai status %d: %w", resp.StatusCode, reference.ErrProviderUnavailable)
	}
	if len(embedResp.Data) == 0 {
		return nil, fmt.Errorf("openai returned no embeddings: %w", reference.ErrProviderUnavailable)
	}

	raw := embedResp.Data[0].Embedding
	vector := make([]float32, len(raw))
	for i, v := range raw {
		vector[i] = float32(v)
	}
	return vector, nil
}

// Dimensions returns the configured vector length.
func (p *Provider) Dimensions() int { return p.dimensions }

// Provider returns the provider name.
func (p *Provider) Provider() string { return "openai" }
