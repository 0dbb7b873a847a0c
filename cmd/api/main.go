// Package main is the entry point for the ainotes API server.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ainotes/internal/config"
)

// Version information set via ldflags during build.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	serve := serveCmd()

	cmd := &cobra.Command{
		Use:   "api",
		Short: "AI notes API server",
		Long: `Notes backend with per-user semantic search and question answering.

Running without a subcommand starts the server.`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	cmd.Flags().AddFlagSet(serve.Flags())

	cmd.AddCommand(serve)
	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(createAdminCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ainotes version %s\n", version)
		},
	})

	return cmd
}

// loadConfig loads configuration and installs the default slog logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.SlogLevel().String(), "format", cfg.LogFormat)

	return cfg, nil
}

// maskDBURL hides credentials in postgres URLs.
func maskDBURL(url string) string {
	if strings.HasPrefix(url, "sqlite:") {
		return url
	}
	return "postgres://***@***"
}
