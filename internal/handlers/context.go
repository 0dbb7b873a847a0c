package handlers

import (
	"context"

	"ainotes/internal/storage"
)

type contextKey string

const userKey contextKey = "user"

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user *storage.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user, or nil on public routes.
func UserFromContext(ctx context.Context) *storage.User {
	user, _ := ctx.Value(userKey).(*storage.User)
	return user
}
