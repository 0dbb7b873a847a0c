package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ainotes/internal/contextutil"
	"ainotes/internal/service"
	"ainotes/internal/storage"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// UserResponse is the public view of an account. The password hash never
// leaves the service.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(u *storage.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

// NotesResponse is the public view of a note.
type NotesResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UserID    int64     `json:"user_id"`
}

func newNotesResponse(n *storage.Note) NotesResponse {
	return NotesResponse{ID: n.ID, Title: n.Title, Content: n.Content, CreatedAt: n.CreatedAt, UserID: n.UserID}
}

// writeJSON writes v with the given status code.
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	if statusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Detail: message})
}

// WriteError is writeError for middleware outside this package.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	writeError(w, statusCode, message)
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		logger.InfoContext(ctx, "validation failed", "error", err)
		writeError(w, http.StatusUnprocessableEntity, validationErr.Error())
	case errors.Is(err, service.ErrInvalidInput):
		logger.InfoContext(ctx, "invalid input", "error", err)
		writeError(w, http.StatusUnprocessableEntity, "Invalid input")
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Could not validate credentials")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "Not authorized to perform this action")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, "Resource already exists")
	case errors.Is(err, service.ErrMissingContext):
		logger.ErrorContext(ctx, "service error", "error", err)
		writeError(w, http.StatusInternalServerError, service.ErrMissingContext.Error())
	case errors.Is(err, service.ErrDependency):
		logger.ErrorContext(ctx, "external service error", "error", err)
		writeError(w, http.StatusBadGateway, "External service error")
	default:
		logger.ErrorContext(ctx, "service error", "error", err)
		writeError(w, http.StatusInternalServerError, defaultMsg)
	}
}

// decodeJSON decodes the request body into v. A malformed body is answered
// with 422 and false is returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		contextutil.LoggerFromContext(r.Context()).WarnContext(r.Context(), "invalid request body", "error", err)
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return false
	}
	return true
}

// pathID parses the {id} URL parameter. An unparsable id is answered with
// 422 and false is returned.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid id")
		return 0, false
	}
	return id, true
}

// currentUser returns the authenticated user. Routes using it sit behind the
// Authenticate middleware, so a missing user is a wiring error.
func currentUser(w http.ResponseWriter, r *http.Request) (*storage.User, bool) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	return user, true
}
