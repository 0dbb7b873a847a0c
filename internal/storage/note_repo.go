package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_store.go -package=mocks ainotes/internal/storage NoteStore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("record already exists")
)

// NoteStore defines the interface for note storage operations.
type NoteStore interface {
	// GetByID gets a note by id.
	// Returns nil and ErrNotFound if not found.
	GetByID(ctx context.Context, id int64) (*Note, error)
	// ListAll returns every note in the system.
	ListAll(ctx context.Context) ([]Note, error)
	// ListByUser returns the notes owned by userID.
	ListByUser(ctx context.Context, userID int64) ([]Note, error)
	// Create inserts the note and fills in its id and created_at.
	Create(ctx context.Context, note *Note) error
	// Update replaces title and content. Owner and created_at are kept.
	Update(ctx context.Context, id int64, title, content string) (*Note, error)
	// Delete removes a note by id.
	Delete(ctx context.Context, id int64) error
}

// NoteRepo provides methods for note operations.
// It implements the NoteStore interface.
type NoteRepo struct {
	db *gorm.DB
}

// NewNoteRepo creates a new NoteRepo.
func NewNoteRepo(db *gorm.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

// GetByID gets a note by id.
func (r *NoteRepo) GetByID(ctx context.Context, id int64) (*Note, error) {
	var note Note
	err := r.db.WithContext(ctx).First(&note, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query note: %w", err)
	}
	return &note, nil
}

// ListAll returns all notes ordered by id.
func (r *NoteRepo) ListAll(ctx context.Context) ([]Note, error) {
	var notes []Note
	if err := r.db.WithContext(ctx).Order("id").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// ListByUser returns the notes of a single user ordered by id.
func (r *NoteRepo) ListByUser(ctx context.Context, userID int64) ([]Note, error) {
	var notes []Note
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notes for user %d: %w", userID, err)
	}
	return notes, nil
}

// Create inserts a new note.
func (r *NoteRepo) Create(ctx context.Context, note *Note) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(note).Error
	})
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// Update sets the title and content of an existing note and returns the stored row.
func (r *NoteRepo) Update(ctx context.Context, id int64, title, content string) (*Note, error) {
	var note Note
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Note{}).
			Where("id = ?", id).
			Updates(map[string]any{"title": title, "content": content})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.First(&note, id).Error
	})
	if errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return &note, nil
}

// Delete deletes a note by id.
func (r *NoteRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&Note{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete note: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
