package service_test

import (
	"context"
	"io"
	"log/slog"

	"ainotes/internal/storage"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// testContext returns a context for testing.
func testContext() context.Context {
	return context.Background()
}

func regularUser(id int64) *storage.User {
	return &storage.User{ID: id, Email: "user@example.com", Role: storage.RoleUser}
}

func adminUser(id int64) *storage.User {
	return &storage.User{ID: id, Email: "admin@example.com", Role: storage.RoleAdmin}
}
