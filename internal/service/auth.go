package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_services.go -package=mocks ainotes/internal/service AuthService,UserService,NoteService,AskService

import (
	"context"
	"errors"

	"ainotes/internal/auth"
	"ainotes/internal/contextutil"
	"ainotes/internal/storage"
)

// TokenTypeBearer is the token_type returned on login.
const TokenTypeBearer = "bearer"

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string
	Password string
}

// Token is the result of a successful login.
type Token struct {
	AccessToken string
	TokenType   string
}

// AuthService authenticates callers.
type AuthService interface {
	// Login checks credentials and issues an access token.
	Login(ctx context.Context, req LoginRequest) (Token, error)
	// Authorize verifies token and loads the user it names.
	Authorize(ctx context.Context, token string) (*storage.User, error)
	// RequireAdmin returns ErrForbidden unless user is an Admin.
	RequireAdmin(user *storage.User) error
}

// authService implements AuthService.
type authService struct {
	users  storage.UserStore
	tokens TokenManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(users storage.UserStore, tokens TokenManager) AuthService {
	return &authService{users: users, tokens: tokens}
}

// Login returns ErrUnauthorized for an unknown email or wrong password.
func (s *authService) Login(ctx context.Context, req LoginRequest) (Token, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateRequired("email", req.Email); err != nil {
		return Token{}, err
	}
	if err := validateRequired("password", req.Password); err != nil {
		return Token{}, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, storage.ErrNotFound) {
		logger.InfoContext(ctx, "login for unknown email")
		return Token{}, ErrUnauthorized
	}
	if err != nil {
		return Token{}, WrapError(err, "failed to load user")
	}

	if !auth.Verify(req.Password, user.PasswordHash) {
		logger.InfoContext(ctx, "login with wrong password", "user_id", user.ID)
		return Token{}, ErrUnauthorized
	}

	token, err := s.tokens.IssueToken(user.ID, string(user.Role))
	if err != nil {
		return Token{}, WrapError(err, "failed to issue token")
	}

	logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return Token{AccessToken: token, TokenType: TokenTypeBearer}, nil
}

// Authorize returns ErrUnauthorized for a bad token or a deleted user.
func (s *authService) Authorize(ctx context.Context, token string) (*storage.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		contextutil.LoggerFromContext(ctx).DebugContext(ctx, "token rejected", "error", err)
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, WrapError(err, "failed to load user")
	}
	return user, nil
}

// RequireAdmin checks the Admin role.
func (s *authService) RequireAdmin(user *storage.User) error {
	if !user.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
