package crossencoder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/hrdesk-cli/internal/core/domain"
	"github.com/custodia-labs/hrdesk-cli/internal/core/ports/driven"
)

func newTestReranker(url string) *Reranker {
	return New(Config{
		BaseURL:           url,
		RequestsPerSecond: 1000,
		BurstSize:         100,
	})
}

func TestRerank_Success(t *testing.T) {
	var gotReq rerankRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rerank", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(rerankResponse{Scores: []float64{-2.5, 4.1}})
	}))
	defer server.Close()

	r := newTestReranker(server.URL)
	scores, err := r.Rerank(context.Background(), "sick days", []string{"passage a", "passage b"})
	require.NoError(t, err)

	assert.Equal(t, []float64{-2.5, 4.1}, scores)
	assert.Equal(t, "sick days", gotReq.Query)
	assert.Equal(t, []string{"passage a", "passage b"}, gotReq.Passages)
	assert.Equal(t, DefaultModel, gotReq.Model)
}

func TestRerank_EmptyPassages(t *testing.T) {
	r := newTestReranker("http://localhost:1")

	scores, err := r.Rerank(context.Background(), "query", nil)
	require.NoError(t, err)
	assert.Nil(t, scores)
}

func TestRerank_ServiceDown(t *testing.T) {
	r := newTestReranker("http://127.0.0.1:1")

	_, err := r.Rerank(context.Background(), "query", []string{"p"})
	assert.ErrorIs(t, err, domain.ErrRerankerUnavailable)
}

func TestRerank_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	r := newTestReranker(server.URL)
	_, err := r.Rerank(context.Background(), "query", []string{"p"})
	assert.ErrorIs(t, err, domain.ErrRerankerUnavailable)
}

func TestRerank_ScoreCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(rerankResponse{Scores: []float64{1.0}})
	}))
	defer server.Close()

	r := newTestReranker(server.URL)
	_, err := r.Rerank(context.Background(), "query", []string{"a", "b"})
	assert.Error(t, err)
}

func TestRerank_RespectsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(rerankResponse{Scores: []float64{1.0}})
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	r := newTestReranker(server.URL)
	_, err := r.Rerank(ctx, "query", []string{"p"})
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	r := New(Config{})
	assert.Equal(t, DefaultModel, r.ModelName())
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Reranker = (*Reranker)(nil)
}
