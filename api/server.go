/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/state            Full state load/replace
  /api/calendars/*      Calendar and PTO operations
  /api/days/*           Point-in-time queries
  /api/share            Shareable token

SECURITY NOTE:
  No authentication middleware. State is single-tenant; the share token
  itself is the access mechanism.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// State routes
		r.Route("/state", func(r chi.Router) {
			r.Get("/", h.GetState)
			r.Put("/", h.PutState)
		})

		// Calendar routes
		r.Route("/calendars", func(r chi.Router) {
			r.Post("/", h.CreateCalendar)
			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", h.DeleteCalendar)
				r.Put("/name", h.RenameCalendar)
				r.Post("/toggle", h.ToggleDate)
				r.Post("/range", h.SetRange)
				r.Get("/export/{format}", h.ExportCalendar)

				r.Route("/pto", func(r chi.Router) {
					r.Post("/config", h.SetPTOConfig)
					r.Post("/entries", h.AddPTOEntry)
					r.Delete("/entries/{entryID}", h.RemovePTOEntry)
					r.Get("/summary", h.GetPTOSummary)
				})
			})
		})

		// Day queries
		r.Get("/days/{date}", h.GetDay)

		// Share token
		r.Get("/share", h.GetShare)
	})

	return r
}
