package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_rag.go -package=mocks ainotes/internal/rag Embedder,Generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"ainotes/internal/contextutil"
	"ainotes/internal/llm"
	"ainotes/internal/telemetry"
	"ainotes/internal/vectorstore"
)

const (
	// DefaultTopK is the number of notes retrieved when none is configured.
	DefaultTopK = 5

	// SystemPrompt restricts the model to the retrieved notes.
	SystemPrompt = "Answer ONLY using the provided notes. If the answer is not present, say you don't know."

	contextSeparator = "\n\n"
)

var (
	// ErrNoMatches is returned when the user has no indexed notes to search.
	ErrNoMatches = errors.New("no matching notes")
	// ErrEmptyContext is returned when matches were found but none carried text.
	ErrEmptyContext = errors.New("matched notes have no text")
)

// Embedder turns the question into a query vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces the final answer from chat messages.
type Generator interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// Engine provides RAG (Retrieval-Augmented Generation) functionality.
type Engine interface {
	// Ask answers a question from the asking user's own notes.
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	generator   Generator
	topK        int
}

// NewEngine creates a new RAG engine. topK <= 0 selects DefaultTopK.
func NewEngine(
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	generator Generator,
	topK int,
) Engine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &ragEngine{
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		generator:   generator,
		topK:        topK,
	}
}

// Ask answers a question using RAG.
func (e *ragEngine) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "rag.Ask", attribute.Int64("user.id", req.UserID))
	defer span.End()

	logger := contextutil.LoggerFromContext(ctx)

	logger.InfoContext(ctx, "RAG query started", "user_id", req.UserID, "k", e.topK)

	queryVector, err := e.embedder.Embed(ctx, req.Question)
	if err != nil {
		telemetry.RecordError(ctx, err)
		logger.ErrorContext(ctx, "failed to embed question", "error", err)
		return AskResponse{}, fmt.Errorf("failed to embed question: %w", err)
	}

	results, err := e.vectorStore.Search(ctx, e.collection, queryVector, e.topK, vectorstore.Filter{"user_id": req.UserID})
	if err != nil {
		telemetry.RecordError(ctx, err)
		logger.ErrorContext(ctx, "failed to search vector store", "error", err)
		return AskResponse{}, fmt.Errorf("failed to search vector store: %w", err)
	}

	if len(results) == 0 {
		logger.InfoContext(ctx, "no matching notes", "user_id", req.UserID)
		return AskResponse{}, ErrNoMatches
	}

	notesContext := BuildContext(results)
	if strings.TrimSpace(notesContext) == "" {
		logger.WarnContext(ctx, "matches carried no text", "matches", len(results))
		return AskResponse{}, ErrEmptyContext
	}

	messages := BuildMessages(notesContext, req.Question)

	answer, err := e.generator.ChatWithMessages(ctx, messages, llm.ChatParams{})
	if err != nil {
		telemetry.RecordError(ctx, err)
		logger.ErrorContext(ctx, "failed to generate answer", "error", err)
		return AskResponse{}, fmt.Errorf("failed to generate answer: %w", err)
	}

	logger.InfoContext(ctx, "RAG query completed", "matches", len(results), "answer_length", len(answer))

	return AskResponse{
		Question: req.Question,
		Answer:   answer,
	}, nil
}

// BuildContext joins the text of each match in rank order. Matches without
// a string text field are skipped.
func BuildContext(results []vectorstore.SearchResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		text, ok := r.Meta["text"].(string)
		if !ok || text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, contextSeparator)
}

// BuildMessages returns the system instruction and the user turn carrying
// the notes and the question.
func BuildMessages(notesContext, question string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf("NOTES:\n%s\n\nQUESTION: %s", notesContext, question)},
	}
}
