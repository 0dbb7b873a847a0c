package service

import (
	"context"
	"errors"

	"ainotes/internal/auth"
	"ainotes/internal/contextutil"
	"ainotes/internal/storage"
)

// CreateUserRequest carries the fields of a new account.
type CreateUserRequest struct {
	Email    string
	Password string
}

// UserService manages accounts.
type UserService interface {
	// Create registers a User-role account.
	Create(ctx context.Context, req CreateUserRequest) (*storage.User, error)
	// CreateAdmin registers an Admin account on behalf of an Admin actor.
	CreateAdmin(ctx context.Context, actor *storage.User, req CreateUserRequest) (*storage.User, error)
	// BootstrapAdmin registers an Admin account without an actor.
	// It backs the command line and must not be reachable over HTTP.
	BootstrapAdmin(ctx context.Context, req CreateUserRequest) (*storage.User, error)
	// Get returns one account.
	Get(ctx context.Context, id int64) (*storage.User, error)
	// List returns every account.
	List(ctx context.Context) ([]storage.User, error)
	// Delete removes an account and its notes. Only the account itself or an
	// Admin may do this.
	Delete(ctx context.Context, actor *storage.User, id int64) error
}

// userService implements UserService.
type userService struct {
	users   storage.UserStore
	indexer NoteIndexer
}

// NewUserService creates a new UserService.
func NewUserService(users storage.UserStore, indexer NoteIndexer) UserService {
	return &userService{users: users, indexer: indexer}
}

func (s *userService) Create(ctx context.Context, req CreateUserRequest) (*storage.User, error) {
	return s.create(ctx, req, storage.RoleUser)
}

func (s *userService) CreateAdmin(ctx context.Context, actor *storage.User, req CreateUserRequest) (*storage.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.create(ctx, req, storage.RoleAdmin)
}

func (s *userService) BootstrapAdmin(ctx context.Context, req CreateUserRequest) (*storage.User, error) {
	return s.create(ctx, req, storage.RoleAdmin)
}

func (s *userService) create(ctx context.Context, req CreateUserRequest, role storage.Role) (*storage.User, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := validateRequired("password", req.Password); err != nil {
		return nil, err
	}

	hash, err := auth.Hash(req.Password)
	if err != nil {
		return nil, WrapError(err, "failed to hash password")
	}

	user := &storage.User{Email: req.Email, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrConflict
		}
		logger.ErrorContext(ctx, "failed to create user", "error", err)
		return nil, WrapError(err, "failed to create user")
	}

	logger.InfoContext(ctx, "user created", "user_id", user.ID, "role", string(role))
	return user, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*storage.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, WrapError(err, "failed to get user")
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]storage.User, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to list users")
	}
	return users, nil
}

// Delete purges the user's vectors first, then deletes the row. The foreign
// key cascade removes the notes.
func (s *userService) Delete(ctx context.Context, actor *storage.User, id int64) error {
	logger := contextutil.LoggerFromContext(ctx)

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if !actor.IsAdmin() && actor.ID != id {
		return ErrForbidden
	}

	if err := s.indexer.RemoveUserNotes(ctx, id); err != nil {
		return dependencyError(err, "failed to remove user vectors")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return WrapError(err, "failed to delete user")
	}

	logger.InfoContext(ctx, "user deleted", "user_id", id, "actor_id", actor.ID)
	return nil
}
