package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"ainotes/internal/service"
	"ainotes/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return storage.Close(db)
		},
	}
}

func createAdminCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an Admin account",
		Long: `Create an Admin account directly in the database.

POST /admin/ needs an Admin token, so the first Admin is created here.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateAdmin(cmd.Context(), email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email address")
	cmd.Flags().StringVar(&password, "password", "", "Admin password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runCreateAdmin(ctx context.Context, email, password string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = storage.Close(db) }()

	// No vectors exist for a new account, so the indexer is never called.
	users := service.NewUserService(storage.NewUserRepo(db), nil)
	user, err := users.BootstrapAdmin(ctx, service.CreateUserRequest{Email: email, Password: password})
	if errors.Is(err, service.ErrConflict) {
		return fmt.Errorf("an account with email %s already exists", email)
	}
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	slog.Info("Admin created", "user_id", user.ID, "email", user.Email)
	return nil
}
