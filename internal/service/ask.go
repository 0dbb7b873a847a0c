package service

import (
	"context"
	"errors"

	"ainotes/internal/rag"
	"ainotes/internal/storage"
)

// AskService answers questions from the caller's notes.
type AskService interface {
	Ask(ctx context.Context, actor *storage.User, question string) (rag.AskResponse, error)
}

// askService implements AskService.
type askService struct {
	engine AnswerEngine
}

// NewAskService creates a new AskService.
func NewAskService(engine AnswerEngine) AskService {
	return &askService{engine: engine}
}

// Ask maps no matches to ErrNotFound and text-less matches to
// ErrMissingContext. Any other engine failure is an ErrDependency.
func (s *askService) Ask(ctx context.Context, actor *storage.User, question string) (rag.AskResponse, error) {
	resp, err := s.engine.Ask(ctx, rag.AskRequest{Question: question, UserID: actor.ID})
	switch {
	case err == nil:
		return resp, nil
	case errors.Is(err, rag.ErrNoMatches):
		return rag.AskResponse{}, WrapError(ErrNotFound, "no relevant notes found")
	case errors.Is(err, rag.ErrEmptyContext):
		return rag.AskResponse{}, ErrMissingContext
	default:
		return rag.AskResponse{}, dependencyError(err, "failed to answer question")
	}
}
