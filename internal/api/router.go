package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/eldtechnologies/maven/internal/api/middleware"
	"github.com/eldtechnologies/maven/internal/handlers"
	"github.com/eldtechnologies/maven/internal/relay"
	"github.com/eldtechnologies/maven/internal/store"
)

// NewRouter creates the ops HTTP router: health, stats and Prometheus
// scraping. This surface is internal; the relay itself has no inbound API.
func NewRouter(logger zerolog.Logger, st store.QuestionStore, seen *store.SeenCache, mailbox handlers.Pinger, registry *relay.Registry) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	h := handlers.NewHandler(st, seen, mailbox, registry)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/stats", h.Stats)

	return r
}
