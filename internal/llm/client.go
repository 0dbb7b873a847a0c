package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"ainotes/internal/retry"
)

// ErrGeneration wraps every failure to produce a chat completion.
var ErrGeneration = errors.New("generation failed")

// Client is a chat completions client for OpenAI-compatible APIs.
type Client struct {
	client *openai.Client
	Model  string
	retry  RetryPolicy
}

// NewClient creates a new LLM client.
func NewClient(cfg Config) *Client {
	return &Client{
		client: newOpenAIClient(cfg),
		Model:  cfg.Model,
		retry:  cfg.Retry,
	}
}

// ChatWithMessages sends a full conversation and returns the content of the
// first choice verbatim.
func (c *Client) ChatWithMessages(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.Model,
		Messages: make([]openai.ChatCompletionMessage, len(messages)),
	}
	for i, m := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	if params.Model != "" {
		req.Model = params.Model
	}
	if params.MaxTokens > 0 {
		req.MaxTokens = params.MaxTokens
	}
	if params.Temperature > 0 {
		req.Temperature = params.Temperature
	}

	var resp openai.ChatCompletionResponse
	err := retry.Do(ctx, c.retry, "chat_completion", isRetryable, func(ctx context.Context) error {
		var err error
		resp, err = c.client.CreateChatCompletion(ctx, req)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrGeneration)
	}

	return resp.Choices[0].Message.Content, nil
}
