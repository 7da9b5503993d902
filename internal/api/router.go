package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Get("/health", s.handleHealth)

	// Render endpoints stay at the root for existing clients.
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/generate-resume", s.handleGenerateResume)
		r.Get("/generate-resume-from-api", s.handleGenerateFromAPI)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealthDetailed)
		r.Get("/metrics", s.handleMetrics)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Route("/renders", func(r chi.Router) {
				r.Get("/", s.handleListRenders)
				r.Get("/{id}", s.handleGetRender)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllow, "method not allowed")
	})

	return r
}
