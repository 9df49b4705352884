package api

import (
	"net/http"

	"github.com/formdesk/formdesk/internal/api/handlers"
	"github.com/formdesk/formdesk/internal/api/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates the HTTP router with all API routes. CORS preflight
// (OPTIONS) is answered by the cors middleware before any method or body
// validation, matching the portal's browser clients.
func NewRouter(h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Logger)
	r.Use(middleware.Telemetry)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	// Health & info
	r.Get("/health", h.Health)
	r.Get("/version", h.VersionInfo)

	// Portal API
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", h.Chat)
		r.Post("/smart-search", h.SmartSearch)
		r.Post("/link-finder", h.LinkFinder)
	})

	return r
}
