// Package http assembles the HTTP server and route tree for the comps API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/logging"
	"github.com/compsred/comps-engine/internal/interfaces/http/handlers"
	"github.com/compsred/comps-engine/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies for the
// route tree. Nil handlers leave their routes unmounted; nil middleware is
// skipped.
type RouterConfig struct {
	DeckHandler       *handlers.DeckHandler
	RenovationHandler *handlers.RenovationHandler
	HealthHandler     *handlers.HealthHandler

	CORSMiddleware *middleware.CORSMiddleware
	Logging        func(http.Handler) http.Handler
	RateLimit      func(http.Handler) http.Handler

	// MetricsHandler serves GET /metrics when set.
	MetricsHandler http.Handler

	Logger logging.Logger
}

// NewRouter builds the complete route tree: global middleware, public
// probes and metrics, and the /api/v1 resource groups.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.CORSMiddleware != nil {
		r.Use(cfg.CORSMiddleware.Handler)
	}
	if cfg.Logging != nil {
		r.Use(cfg.Logging)
	}
	if cfg.RateLimit != nil {
		r.Use(cfg.RateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		registerDeckRoutes(api, cfg.DeckHandler)
		registerRenovationRoutes(api, cfg.RenovationHandler)
	})

	return r
}

// registerDeckRoutes mounts deck resource endpoints under /decks.
func registerDeckRoutes(r chi.Router, h *handlers.DeckHandler) {
	if h == nil {
		return
	}
	r.Route("/decks", func(dr chi.Router) {
		dr.Get("/", h.List)
		dr.Post("/", h.Create)

		dr.Route("/{deckID}", func(item chi.Router) {
			item.Get("/", h.Get)
			item.Delete("/", h.Delete)
			item.Post("/cards", h.AddCard)
			item.Get("/analysis", h.Analysis)
			item.Get("/twins", h.Twins)
			item.Post("/export", h.Export)
		})
	})
}

// registerRenovationRoutes mounts renovation endpoints under /renovation.
func registerRenovationRoutes(r chi.Router, h *handlers.RenovationHandler) {
	if h == nil {
		return
	}
	r.Route("/renovation", func(rr chi.Router) {
		rr.Post("/estimate", h.Estimate)
		rr.Post("/arv", h.ARV)
		rr.Post("/max-offer", h.MaxOffer)
	})
}

//Personal.AI order the ending
