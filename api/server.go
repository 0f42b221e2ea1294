/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for admin frontends

ROUTE GROUPS:
  /api/accrual/*            Engine runs and audit history
  /api/tenants/{tenant}/*   Roster, leave types, balances

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

	r.Route("/api", func(r chi.Router) {
		r.Route("/accrual", func(r chi.Router) {
			r.Post("/run", h.RunAccrual)
			r.Get("/runs", h.ListAccrualRuns)
		})

		r.Route("/tenants/{tenant}", func(r chi.Router) {
			r.Get("/balances", h.ListBalances)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.ListEmployees)
				r.Put("/", h.SaveEmployee)
				r.Delete("/{code}", h.DeleteEmployee)
			})

			r.Route("/leave-types", func(r chi.Router) {
				r.Get("/", h.ListLeaveTypes)
				r.Put("/", h.SaveLeaveType)
			})
		})
	})

	return r
}
