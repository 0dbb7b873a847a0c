package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbeddingServer mimics the OpenAI embeddings endpoint. It returns
// vectors of the given size and fails the first failures requests with 503.
func fakeEmbeddingServer(t *testing.T, dim int, failures int64, counter *atomic.Int64) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := counter.Add(1)
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if n <= failures {
			http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
			return
		}

		var body struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		data := make([]map[string]any, len(body.Input))
		for i := range body.Input {
			vec := make([]float64, dim)
			vec[0] = float64(i + 1)
			data[i] = map[string]any{"object": "embedding", "index": i, "embedding": vec}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  body.Model,
			"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
}

func TestEmbeddingsClient_Embed(t *testing.T) {
	var counter atomic.Int64
	srv := fakeEmbeddingServer(t, 4, 0, &counter)
	defer srv.Close()

	client := NewEmbeddingsClient(Config{APIKey: "k", BaseURL: srv.URL, Model: "m"}, 4)

	vec, err := client.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, vec, 4)
	assert.Equal(t, int64(1), counter.Load())
}

func TestEmbeddingsClient_EmbedTexts(t *testing.T) {
	tests := []struct {
		name         string
		texts        []string
		serverDim    int
		expectedSize int
		failures     int64
		retry        RetryPolicy
		wantErr      bool
		wantCalls    int64
	}{
		{
			name:         "successful embedding",
			texts:        []string{"Hello", "World"},
			serverDim:    8,
			expectedSize: 8,
			wantCalls:    1,
		},
		{
			name:         "empty input",
			texts:        []string{},
			serverDim:    8,
			expectedSize: 8,
			wantErr:      true,
			wantCalls:    0,
		},
		{
			name:         "dimension mismatch",
			texts:        []string{"Hello"},
			serverDim:    4,
			expectedSize: 8,
			wantErr:      true,
			wantCalls:    1,
		},
		{
			name:         "no retries by default",
			texts:        []string{"Hello"},
			serverDim:    8,
			expectedSize: 8,
			failures:     1,
			wantErr:      true,
			wantCalls:    1,
		},
		{
			name:         "retries transient failures",
			texts:        []string{"Hello"},
			serverDim:    8,
			expectedSize: 8,
			failures:     2,
			retry:        RetryPolicy{MaxRetries: 2, BackoffBase: time.Millisecond},
			wantCalls:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var counter atomic.Int64
			srv := fakeEmbeddingServer(t, tt.serverDim, tt.failures, &counter)
			defer srv.Close()

			client := NewEmbeddingsClient(Config{
				APIKey:  "k",
				BaseURL: srv.URL,
				Model:   "m",
				Retry:   tt.retry,
			}, tt.expectedSize)

			got, err := client.EmbedTexts(context.Background(), tt.texts)
			assert.Equal(t, tt.wantCalls, counter.Load())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrEmbedding)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.texts))
			for i, v := range got {
				assert.Len(t, v, tt.expectedSize)
				assert.Equal(t, float32(i+1), v[0])
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "rate limited", err: &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, want: true},
		{name: "service unavailable", err: &openai.APIError{HTTPStatusCode: http.StatusServiceUnavailable}, want: true},
		{name: "bad request", err: &openai.APIError{HTTPStatusCode: http.StatusBadRequest}},
		{name: "transport failure", err: &openai.RequestError{HTTPStatusCode: http.StatusBadGateway}, want: true},
		{name: "attempt deadline", err: fmt.Errorf("embed: %w", context.DeadlineExceeded), want: true},
		{name: "short embedding response", err: errCountMismatch, want: true},
		{name: "other", err: assert.AnError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}
