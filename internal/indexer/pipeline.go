package indexer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks ainotes/internal/indexer Embedder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"ainotes/internal/contextutil"
	"ainotes/internal/storage"
	"ainotes/internal/telemetry"
	"ainotes/internal/vectorstore"
)

// ErrSync is returned when the vector index could not be brought in line
// with the relational store and the failure policy says to surface it.
var ErrSync = errors.New("vector sync failed")

// FailurePolicy decides what happens when a vector operation fails after
// (or before) the relational change.
type FailurePolicy string

const (
	// PolicyFail returns ErrSync to the caller.
	PolicyFail FailurePolicy = "fail"
	// PolicyLog logs the failure and reports success.
	PolicyLog FailurePolicy = "log"
)

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Options configures a Pipeline.
type Options struct {
	// WriteFailure applies to create and update. Defaults to PolicyFail.
	WriteFailure FailurePolicy
	// DeleteFailure applies to note and user deletes. Defaults to PolicyLog.
	DeleteFailure FailurePolicy
}

// Pipeline keeps the vector index in step with note rows. It never touches
// the relational store itself; callers commit the row change and then call
// IndexNote, or call RemoveNote/RemoveUserNotes before deleting rows.
type Pipeline struct {
	embedder      Embedder
	vectorStore   vectorstore.VectorStore
	collection    string
	writeFailure  FailurePolicy
	deleteFailure FailurePolicy
}

// NewPipeline creates a new indexing pipeline.
func NewPipeline(embedder Embedder, vectorStore vectorstore.VectorStore, collection string, opts Options) *Pipeline {
	if opts.WriteFailure == "" {
		opts.WriteFailure = PolicyFail
	}
	if opts.DeleteFailure == "" {
		opts.DeleteFailure = PolicyLog
	}
	return &Pipeline{
		embedder:      embedder,
		vectorStore:   vectorStore,
		collection:    collection,
		writeFailure:  opts.WriteFailure,
		deleteFailure: opts.DeleteFailure,
	}
}

// VectorID is the vector record id of a note.
func VectorID(noteID int64) string {
	return fmt.Sprintf("note-%d", noteID)
}

// NoteText is the text that gets embedded and stored for a note.
func NoteText(title, content string) string {
	return title + "\n" + content
}

// NoteMetadata is the payload stored with a note's vector.
func NoteMetadata(note storage.Note) map[string]any {
	return map[string]any{
		"user_id":    note.UserID,
		"created_at": note.CreatedAt.UTC().Format(time.RFC3339),
		"text":       NoteText(note.Title, note.Content),
	}
}

// IndexNote embeds the note and upserts its vector record. Upserting
// under the same vector id replaces the previous version.
func (p *Pipeline) IndexNote(ctx context.Context, note storage.Note) error {
	ctx, span := telemetry.StartSpan(ctx, "indexer.IndexNote",
		attribute.Int64("note.id", note.ID),
		attribute.Int64("user.id", note.UserID),
	)
	defer span.End()

	logger := contextutil.LoggerFromContext(ctx)
	vectorID := VectorID(note.ID)

	err := p.indexNote(ctx, vectorID, note)
	if err == nil {
		logger.DebugContext(ctx, "note indexed", "note_id", note.ID, "vector_id", vectorID)
		return nil
	}

	telemetry.RecordError(ctx, err)
	logger.ErrorContext(ctx, "failed to index note",
		"note_id", note.ID,
		"vector_id", vectorID,
		"policy", string(p.writeFailure),
		"error", err,
	)
	if p.writeFailure == PolicyLog {
		return nil
	}
	return fmt.Errorf("%w: index note %d: %w", ErrSync, note.ID, err)
}

func (p *Pipeline) indexNote(ctx context.Context, vectorID string, note storage.Note) error {
	vec, err := p.embedder.Embed(ctx, NoteText(note.Title, note.Content))
	if err != nil {
		return err
	}
	return p.vectorStore.Upsert(ctx, p.collection, []vectorstore.Point{{
		ID:   vectorID,
		Vec:  vec,
		Meta: NoteMetadata(note),
	}})
}

// RemoveNote deletes the vector record of a note.
func (p *Pipeline) RemoveNote(ctx context.Context, noteID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "indexer.RemoveNote", attribute.Int64("note.id", noteID))
	defer span.End()

	err := p.vectorStore.Delete(ctx, p.collection, []string{VectorID(noteID)})
	return p.deleteResult(ctx, err, "note_id", noteID)
}

// RemoveUserNotes deletes every vector record owned by a user.
func (p *Pipeline) RemoveUserNotes(ctx context.Context, userID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "indexer.RemoveUserNotes", attribute.Int64("user.id", userID))
	defer span.End()

	err := p.vectorStore.DeleteByFilter(ctx, p.collection, vectorstore.Filter{"user_id": userID})
	return p.deleteResult(ctx, err, "user_id", userID)
}

func (p *Pipeline) deleteResult(ctx context.Context, err error, key string, id int64) error {
	if err == nil {
		return nil
	}

	telemetry.RecordError(ctx, err)
	contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to delete vectors",
		key, id,
		"policy", string(p.deleteFailure),
		"error", err,
	)
	if p.deleteFailure == PolicyLog {
		return nil
	}
	return fmt.Errorf("%w: delete vectors for %s %d: %w", ErrSync, key, id, err)
}
