package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ainotes/internal/handlers"
	"ainotes/internal/service"
	"ainotes/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	AuthService service.AuthService
	UserService service.UserService
	NoteService service.NoteService
	AskService  service.AskService

	// PingDB and VectorStore back the health check.
	PingDB           func(ctx context.Context) error
	VectorStore      vectorstore.VectorStore
	VectorCollection string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(Tracing)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	authenticate := Authenticate(deps.AuthService)
	requireAdmin := RequireAdmin(deps.AuthService)

	loginHandler := handlers.NewLoginHandler(deps.AuthService)
	userHandler := handlers.NewUserHandler(deps.UserService)
	noteHandler := handlers.NewNoteHandler(deps.NoteService)
	askHandler := handlers.NewAskHandler(deps.AskService)
	healthHandler := handlers.NewHealthHandler(deps.PingDB, deps.VectorStore, deps.VectorCollection)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"Hello": "World"})
	})
	r.Method(http.MethodGet, "/health", healthHandler)
	r.Method(http.MethodPost, "/login", loginHandler)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Create)
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/", userHandler.List)
			r.Get("/{id}", userHandler.Get)
			r.Delete("/{id}", userHandler.Delete)
		})
	})

	r.Route("/notes", func(r chi.Router) {
		r.Use(authenticate)
		r.Post("/", noteHandler.Create)
		r.Get("/", noteHandler.List)
		r.Get("/{id}", noteHandler.Get)
		r.Get("/{id}/html", noteHandler.HTML)
		r.Put("/{id}", noteHandler.Update)
		r.Delete("/{id}", noteHandler.Delete)
	})

	r.Route("/AI", func(r chi.Router) {
		r.Use(authenticate)
		r.Method(http.MethodPost, "/ask", askHandler)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticate, requireAdmin)
		r.Post("/", userHandler.CreateAdmin)
	})

	return r
}
