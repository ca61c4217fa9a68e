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

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Snapshot views
		r.Route("/snapshot", func(r chi.Router) {
			r.Get("/", s.handleGetSnapshot)
			r.Get("/low-battery", s.handleLowBatteryText)
			r.Get("/without-battery-info", s.handleWithoutBatteryInfoText)
		})

		// Runtime settings
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", s.handleGetSettings)
			r.Put("/", s.handleUpdateSettings)
		})

		// On-demand re-evaluation
		r.Post("/refresh", s.handleRefresh)

		// Support diagnostics
		r.Get("/diagnostics", s.handleDiagnostics)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
