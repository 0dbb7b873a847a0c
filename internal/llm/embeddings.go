package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"ainotes/internal/retry"
)

var (
	// ErrEmbedding wraps every failure to produce an embedding.
	ErrEmbedding = errors.New("embedding failed")

	errCountMismatch = errors.New("embedding response count mismatch")
)

// EmbeddingsClient turns text into vectors through an OpenAI-compatible API.
type EmbeddingsClient struct {
	client       *openai.Client
	Model        string
	ExpectedSize int // Expected vector size for validation
	retry        RetryPolicy
}

// NewEmbeddingsClient creates a new embeddings client.
// expectedSize is the configured vector dimension; every returned vector is
// validated against it.
func NewEmbeddingsClient(cfg Config, expectedSize int) *EmbeddingsClient {
	return &EmbeddingsClient{
		client:       newOpenAIClient(cfg),
		Model:        cfg.Model,
		ExpectedSize: expectedSize,
		retry:        cfg.Retry,
	}
}

// Embed returns the embedding of a single text.
func (c *EmbeddingsClient) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts generates embeddings for the given texts.
// Returns a slice of float32 vectors, one per input text.
// Validates that all returned vectors match the expected size.
func (c *EmbeddingsClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: empty input array", ErrEmbedding)
	}

	req := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.Model),
		Input: texts,
	}

	var resp openai.EmbeddingResponse
	err := retry.Do(ctx, c.retry, "embeddings", isRetryable, func(ctx context.Context) error {
		var err error
		resp, err = c.client.CreateEmbeddings(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("%w: got %d vectors for %d texts", errCountMismatch, len(resp.Data), len(texts))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}

	vectors := make([][]float32, len(texts))
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= len(texts) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", ErrEmbedding, data.Index)
		}
		if c.ExpectedSize > 0 && len(data.Embedding) != c.ExpectedSize {
			return nil, fmt.Errorf("%w: embedding dimension mismatch: got %d, expected %d",
				ErrEmbedding, len(data.Embedding), c.ExpectedSize)
		}
		vectors[data.Index] = data.Embedding
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("%w: missing embedding for input %d", ErrEmbedding, i)
		}
	}

	return vectors, nil
}
