package handlers

import (
	"net/http"

	"ainotes/internal/service"
)

// UserHandler serves the /users and /admin routes.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest represents the payload for a new account.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req CreateUserRequest) toService() service.CreateUserRequest {
	return service.CreateUserRequest{Email: req.Email, Password: req.Password}
}

// Create handles POST /users/. It is public.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.Create(ctx, req.toService())
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to create user")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, newUserResponse(user))
}

// CreateAdmin handles POST /admin/.
func (h *UserHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.CreateAdmin(ctx, actor, req.toService())
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to create admin")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, newUserResponse(user))
}

// List handles GET /users/.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.userService.List(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list users")
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, newUserResponse(&users[i]))
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.Get(ctx, id)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to get user")
		return
	}
	writeJSON(ctx, w, http.StatusOK, newUserResponse(user))
}

// Delete handles DELETE /users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.userService.Delete(ctx, actor, id); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
