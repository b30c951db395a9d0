// Package crossencoder provides a reranker adapter backed by an HTTP
// cross-encoder scoring service.
//
// The service scores (query, passage) pairs jointly, which is slower
// than the fused first-pass ranking but considerably more precise.
// Requests are rate limited so a burst of agent queries cannot
// overload a locally hosted model server. Reranking is optional in the
// pipeline; any failure here falls back to fused ordering upstream.
package crossencoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
)

// Ensure Reranker implements the interface.
var _ driven.Reranker = (*Reranker)(nil)

// Default configuration values.
const (
	DefaultBaseURL           = "http://localhost:8580"
	DefaultModel             = "cross-encoder/ms-marco-MiniLM-L-6-v2"
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 4
	DefaultBurstSize         = 2
)

// Config holds configuration for the cross-encoder service.
type Config struct {
	// BaseURL is the scoring service base URL (default: http://localhost:8580).
	BaseURL string

	// Model is the cross-encoder model to use.
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond throttles calls to the scoring service.
	RequestsPerSecond float64

	// BurstSize is the rate limiter burst allowance.
	BurstSize int
}

// Reranker scores passages against a query via an HTTP cross-encoder.
type Reranker struct {
	client  *http.Client
	baseURL string
	model   string
	limiter *rate.Limiter
}

// rerankRequest is the scoring service request format.
type rerankRequest struct {
	Model    string   `json:"model"`
	Query    string   `json:"query"`
	Passages []string `json:"passages"`
}

// rerankResponse is the scoring service response format.
type rerankResponse struct {
	Scores []float64 `json:"scores"`
}

// New creates a cross-encoder reranker.
func New(cfg Config) *Reranker {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.BurstSize == 0 {
		cfg.BurstSize = DefaultBurstSize
	}

	return &Reranker{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Rerank returns relevance scores for the passages in input order.
// Higher is more relevant; scores are model logits and may be
// negative.
func (r *Reranker) Rerank(ctx context.Context, query string, passages []string) ([]float64, error) {
	if len(passages) == 0 {
		return nil, nil
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rerank rate limit: %w", err)
	}

	reqBody := rerankRequest{
		Model:    r.model,
		Query:    query,
		Passages: passages,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		r.baseURL+"/rerank",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRerankerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("%w: status %d", domain.ErrRerankerUnavailable, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrRerankerUnavailable, resp.StatusCode, string(body))
	}

	var rerankResp rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&rerankResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(rerankResp.Scores) != len(passages) {
		return nil, fmt.Errorf("rerank: got %d scores for %d passages", len(rerankResp.Scores), len(passages))
	}

	return rerankResp.Scores, nil
}

// ModelName returns the configured cross-encoder model.
func (r *Reranker) ModelName() string {
	return r.model
}
