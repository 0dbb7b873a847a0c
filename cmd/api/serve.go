package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"ainotes/internal/auth"
	"ainotes/internal/config"
	"ainotes/internal/http"
	"ainotes/internal/indexer"
	"ainotes/internal/llm"
	"ainotes/internal/rag"
	"ainotes/internal/service"
	"ainotes/internal/storage"
	"ainotes/internal/telemetry"
	"ainotes/internal/vectorstore"
)

func serveCmd() *cobra.Command {
	var checkEmbeddings bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration comes from environment variables, with a .env file in the
working directory or a parent filling in unset values.

  DATABASE_URL                 sqlite:///path or postgres://... (default: sqlite:///./data/ainotes.db)
  SECRET_KEY_JWT               Token signing secret (required)
  ACCESS_TOKEN_EXPIRE_MINUTES  Token lifetime (default: 300000)
  OPENAI_API_KEY, OPENAI_BASE_URL
  EMBEDDING_MODEL, CHAT_MODEL
  VECTOR_BACKEND               qdrant or pgvector (default: qdrant)
  QDRANT_URL, QDRANT_API_KEY
  VECTOR_COLLECTION            (default: notes-api)
  VECTOR_DIMENSION             (default: 1536)
  RAG_TOP_K                    (default: 5)
  SYNC_WRITE_FAILURE_POLICY    fail or log (default: fail)
  SYNC_DELETE_FAILURE_POLICY   fail or log (default: log)
  {EMBEDDING,GENERATION,VECTOR}_{MAX_RETRIES,TIMEOUT_MS,BACKOFF_BASE_MS}
  LOG_LEVEL, LOG_FORMAT, JAEGER_ENDPOINT, API_PORT`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), checkEmbeddings)
		},
	}

	cmd.Flags().BoolVar(&checkEmbeddings, "check-embeddings", true, "Embed a probe text at startup and verify the vector size")

	return cmd
}

func runServe(ctx context.Context, checkEmbeddings bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.JaegerEndpoint != "" {
		shutdownTracing, err := telemetry.InitJaeger("ainotes", version, cfg.JaegerEndpoint, cfg.TraceSampleRatio)
		if err != nil {
			return err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(flushCtx); err != nil {
				slog.Error("failed to flush traces", "error", err)
			}
		}()
		slog.Info("Tracing enabled", "endpoint", cfg.JaegerEndpoint)
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	vectorStore, closeVectorStore, err := openVectorStore(cfg, db)
	if err != nil {
		return err
	}
	defer closeVectorStore()

	if err := vectorStore.EnsureCollection(ctx, cfg.VectorCollection, cfg.VectorDimension); err != nil {
		return fmt.Errorf("ensure vector collection: %w", err)
	}
	slog.Info("Vector collection ready", "backend", cfg.VectorBackend, "collection", cfg.VectorCollection, "vector_size", cfg.VectorDimension)

	embedder := llm.NewEmbeddingsClient(llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.EmbeddingModel,
		Retry:   llmRetry(cfg.EmbeddingRetry),
	}, cfg.VectorDimension)

	if checkEmbeddings {
		if _, err := embedder.Embed(ctx, "ping"); err != nil {
			return fmt.Errorf("validate embedding client: %w", err)
		}
		slog.Info("Embedding client validated", "model", cfg.EmbeddingModel, "vector_size", cfg.VectorDimension)
	}

	generator := llm.NewClient(llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.ChatModel,
		Retry:   llmRetry(cfg.GenerationRetry),
	})

	tokens, err := auth.NewTokenIssuer(cfg.SecretKeyJWT, cfg.AccessTokenTTL())
	if err != nil {
		return err
	}

	userRepo := storage.NewUserRepo(db)
	noteRepo := storage.NewNoteRepo(db)

	pipeline := indexer.NewPipeline(embedder, vectorStore, cfg.VectorCollection, indexer.Options{
		WriteFailure:  indexer.FailurePolicy(cfg.SyncWriteFailurePolicy),
		DeleteFailure: indexer.FailurePolicy(cfg.SyncDeleteFailurePolicy),
	})
	engine := rag.NewEngine(embedder, vectorStore, cfg.VectorCollection, generator, cfg.RAGTopK)

	router := http.NewRouter(&http.Deps{
		AuthService:      service.NewAuthService(userRepo, tokens),
		UserService:      service.NewUserService(userRepo, pipeline),
		NoteService:      service.NewNoteService(noteRepo, pipeline),
		AskService:       service.NewAskService(engine),
		PingDB:           func(ctx context.Context) error { return storage.Ping(ctx, db) },
		VectorStore:      vectorStore,
		VectorCollection: cfg.VectorCollection,
	})

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "addr", server.Addr, "version", version)
		slog.Debug("LLM configuration", "base_url", cfg.OpenAIBaseURL, "chat_model", cfg.ChatModel, "embedding_model", cfg.EmbeddingModel)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-sigCtx.Done():
	}

	slog.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openDatabase connects and migrates the relational store.
func openDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	slog.Info("Connecting to database", "url", maskDBURL(cfg.DatabaseURL))
	db, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = storage.Close(db)
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("Database initialized")
	return db, nil
}

// openVectorStore builds the configured vector index adapter, wrapped with
// the VECTOR_* retry policy.
func openVectorStore(cfg *config.Config, db *gorm.DB) (vectorstore.VectorStore, func(), error) {
	policy := vectorstore.RetryPolicy{
		MaxRetries:  cfg.VectorRetry.MaxRetries,
		Timeout:     cfg.VectorRetry.Timeout(),
		BackoffBase: cfg.VectorRetry.BackoffBase(),
	}

	switch cfg.VectorBackend {
	case config.VectorBackendPgVector:
		return vectorstore.WithRetry(vectorstore.NewPgVectorStore(db), policy), func() {}, nil
	default:
		store, err := vectorstore.NewQdrantStore(vectorstore.QdrantConfig{URL: cfg.QdrantURL, APIKey: cfg.QdrantAPIKey})
		if err != nil {
			return nil, nil, fmt.Errorf("create Qdrant client: %w", err)
		}
		closeFn := func() {
			if err := store.Close(); err != nil {
				slog.Error("failed to close Qdrant client", "error", err)
			}
		}
		return vectorstore.WithRetry(store, policy), closeFn, nil
	}
}

func llmRetry(r config.RetryEnv) llm.RetryPolicy {
	return llm.RetryPolicy{
		MaxRetries:  r.MaxRetries,
		Timeout:     r.Timeout(),
		BackoffBase: r.BackoffBase(),
	}
}
