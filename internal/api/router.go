package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/tosifAN/sunrise-2024/internal/board"
)

// NewRouter creates the Chi router with all routes and middleware.
func NewRouter(svc *board.Service, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	r.MethodNotAllowed(MethodNotAllowed)

	healthH := NewHealthHandler(svc)
	taskH := NewTaskHandler(svc)

	r.Get("/health", healthH.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/board", taskH.Board)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskH.List)
			r.Post("/", taskH.Create)
			r.Post("/reset", taskH.Reset)
			r.Put("/{id}", taskH.Update)
			r.Delete("/{id}", taskH.Delete)
			r.Patch("/{id}", taskH.Complete)
		})
	})

	return r
}
