package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_dependencies.go -package=mocks ainotes/internal/service TokenManager,NoteIndexer,AnswerEngine

import (
	"context"

	"ainotes/internal/auth"
	"ainotes/internal/rag"
	"ainotes/internal/storage"
)

// TokenManager issues and verifies access tokens.
// This interface is defined from the service layer's perspective (consumer-first).
type TokenManager interface {
	IssueToken(userID int64, role string) (string, error)
	VerifyToken(token string) (*auth.Claims, error)
}

// NoteIndexer keeps note vectors in step with note rows.
type NoteIndexer interface {
	IndexNote(ctx context.Context, note storage.Note) error
	RemoveNote(ctx context.Context, noteID int64) error
	RemoveUserNotes(ctx context.Context, userID int64) error
}

// AnswerEngine answers questions from a user's notes.
type AnswerEngine interface {
	Ask(ctx context.Context, req rag.AskRequest) (rag.AskResponse, error)
}
