package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Brasil-Rental-Karts/brk-backend-sub002/api/handlers"
)

// NewRouter builds the HTTP surface: standings reads, explanations, xlsx
// export, manual recompute, health and metrics.
func NewRouter(handler *handlers.ClassificationHandler, registry *prometheus.Registry) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/seasons/{seasonID}/categories/{categoryID}", func(r chi.Router) {
		r.Get("/standings", handler.GetSeasonStandings)
		r.Get("/standings/export", handler.ExportSeasonStandings)
		r.Route("/competitors/{competitorID}", func(r chi.Router) {
			r.Get("/classification", handler.GetClassification)
			r.Get("/classification/explain", handler.ExplainClassification)
		})
	})

	r.Post("/classifications/recompute", handler.RequestRecompute)
	r.Post("/championships/{championshipID}/recompute", handler.RecomputeChampionship)

	r.Get("/healthz", handler.HealthCheck)
	if registry != nil {
		r.Method("GET", "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	return r
}
