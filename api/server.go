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
  4. CORS:       Cross-origin requests for the rostering frontend

ROUTE GROUPS:
  /api/workers/*      Worker directory, fatigue, leave
  /api/shifts/*       Roster entries
  /api/compliance/*   Ratio checks, action simulation, staffing
  /api/rooms/*        Licensed rooms
  /api/rulesets/*     Stored rule sets

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

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
		// Worker routes
		r.Route("/workers", func(r chi.Router) {
			r.Get("/", h.ListWorkers)
			r.Post("/", h.SaveWorker)
			r.Get("/{id}", h.GetWorker)
			r.Delete("/{id}", h.DeleteWorker)
			r.Get("/{id}/shifts", h.ListWorkerShifts)
			r.Get("/{id}/fatigue", h.GetFatigueScore)
			r.Get("/{id}/violations", h.GetViolations)
			r.Post("/{id}/accruals", h.CalculateAccruals)
			r.Get("/{id}/balances", h.GetBalances)
			r.Get("/{id}/transactions", h.GetTransactions)
			r.Post("/{id}/leave", h.TakeLeave)
			r.Post("/{id}/termination", h.Termination)
		})

		// Shift routes
		r.Route("/shifts", func(r chi.Router) {
			r.Post("/", h.SaveShift)
			r.Get("/{id}", h.GetShift)
			r.Delete("/{id}", h.DeleteShift)
		})

		// Compliance routes
		r.Route("/compliance", func(r chi.Router) {
			r.Post("/check", h.CheckCompliance)
			r.Post("/actions", h.ValidateAction)
			r.Post("/staffing", h.SuggestStaffing)
		})

		// Room routes
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", h.ListRooms)
			r.Post("/", h.SaveRoom)
		})

		// Rule set routes
		r.Route("/rulesets", func(r chi.Router) {
			r.Get("/", h.ListRuleSets)
			r.Post("/", h.SaveRuleSet)
			r.Get("/defaults", h.GetDefaults)
			r.Get("/{id}", h.GetRuleSet)
			r.Post("/{id}/activate", h.ActivateRuleSet)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/adjustments", h.CreateAdjustment)
		})
	})

	return r
}
