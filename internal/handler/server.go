// Package handler implements the HTTP handlers for the Viking task tracker.
// All handlers are methods on Server. Methods are split into files by
// resource (health.go, task.go, export.go) but share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/viking/internal/domain"
	"github.com/pkordes/viking/spec"
)

// TaskServicer defines the business operations the task handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching any storage backend.
type TaskServicer interface {
	Create(ctx context.Context, name string) (*domain.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	List(ctx context.Context) ([]*domain.Task, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]*domain.Task, int, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*domain.Task, error)
	Complete(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	DeleteByName(ctx context.Context, name string) (int, error)
}

// Server serves every API endpoint.
type Server struct {
	tasks  TaskServicer
	logger *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger discards error logs.
func NewServer(tasks TaskServicer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{tasks: tasks, logger: logger}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil)
}

// Handler returns a chi router with every route registered.
// Mount it under "/" after the middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/export", s.GetExport)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.ListTasks)
		r.Post("/", s.CreateTask)
		r.Delete("/", s.DeleteTasksByName)
		r.Get("/{id}", s.GetTask)
		r.Put("/{id}", s.RenameTask)
		r.Post("/{id}/complete", s.CompleteTask)
	})

	return r
}

// GetOpenAPI handles GET /openapi.yaml with the embedded API description.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(spec.OpenAPI)
}
