package service

import (
	"context"
	"errors"

	"ainotes/internal/contextutil"
	"ainotes/internal/storage"
)

// NoteInput carries the editable fields of a note.
type NoteInput struct {
	Title   string
	Content string
}

// NoteService applies the owner-or-admin policy to notes and keeps the
// vector index in sync.
type NoteService interface {
	Create(ctx context.Context, actor *storage.User, in NoteInput) (*storage.Note, error)
	// List returns every note for an Admin and the actor's own notes otherwise.
	List(ctx context.Context, actor *storage.User) ([]storage.Note, error)
	Get(ctx context.Context, actor *storage.User, id int64) (*storage.Note, error)
	Update(ctx context.Context, actor *storage.User, id int64, in NoteInput) (*storage.Note, error)
	Delete(ctx context.Context, actor *storage.User, id int64) error
}

// noteService implements NoteService.
type noteService struct {
	notes   storage.NoteStore
	indexer NoteIndexer
}

// NewNoteService creates a new NoteService.
func NewNoteService(notes storage.NoteStore, indexer NoteIndexer) NoteService {
	return &noteService{notes: notes, indexer: indexer}
}

// Create commits the row, then indexes it. An indexing failure is returned
// even though the row stays committed.
func (s *noteService) Create(ctx context.Context, actor *storage.User, in NoteInput) (*storage.Note, error) {
	logger := contextutil.LoggerFromContext(ctx)

	note := &storage.Note{Title: in.Title, Content: in.Content, UserID: actor.ID}
	if err := s.notes.Create(ctx, note); err != nil {
		logger.ErrorContext(ctx, "failed to create note", "error", err)
		return nil, WrapError(err, "failed to create note")
	}

	if err := s.indexer.IndexNote(ctx, *note); err != nil {
		return nil, dependencyError(err, "note saved but indexing failed")
	}

	logger.InfoContext(ctx, "note created", "note_id", note.ID, "user_id", actor.ID)
	return note, nil
}

func (s *noteService) List(ctx context.Context, actor *storage.User) ([]storage.Note, error) {
	var (
		notes []storage.Note
		err   error
	)
	if actor.IsAdmin() {
		notes, err = s.notes.ListAll(ctx)
	} else {
		notes, err = s.notes.ListByUser(ctx, actor.ID)
	}
	if err != nil {
		return nil, WrapError(err, "failed to list notes")
	}
	return notes, nil
}

func (s *noteService) Get(ctx context.Context, actor *storage.User, id int64) (*storage.Note, error) {
	return s.authorized(ctx, actor, id)
}

// Update commits the new title and content, then re-indexes under the same
// vector id.
func (s *noteService) Update(ctx context.Context, actor *storage.User, id int64, in NoteInput) (*storage.Note, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if _, err := s.authorized(ctx, actor, id); err != nil {
		return nil, err
	}

	note, err := s.notes.Update(ctx, id, in.Title, in.Content)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, WrapError(err, "failed to update note")
	}

	if err := s.indexer.IndexNote(ctx, *note); err != nil {
		return nil, dependencyError(err, "note updated but indexing failed")
	}

	logger.InfoContext(ctx, "note updated", "note_id", id, "actor_id", actor.ID)
	return note, nil
}

// Delete removes the vector first, then the row.
func (s *noteService) Delete(ctx context.Context, actor *storage.User, id int64) error {
	logger := contextutil.LoggerFromContext(ctx)

	if _, err := s.authorized(ctx, actor, id); err != nil {
		return err
	}

	if err := s.indexer.RemoveNote(ctx, id); err != nil {
		return dependencyError(err, "failed to remove note vector")
	}

	if err := s.notes.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return WrapError(err, "failed to delete note")
	}

	logger.InfoContext(ctx, "note deleted", "note_id", id, "actor_id", actor.ID)
	return nil
}

// authorized loads the note and applies the owner-or-admin rule.
func (s *noteService) authorized(ctx context.Context, actor *storage.User, id int64) (*storage.Note, error) {
	note, err := s.notes.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, WrapError(err, "failed to get note")
	}
	if !actor.IsAdmin() && note.UserID != actor.ID {
		return nil, ErrForbidden
	}
	return note, nil
}
