package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/maps-scraper/internal/delivery/http/handler"
	"github.com/user/maps-scraper/internal/delivery/http/middleware"
	"go.uber.org/zap"
)

func New(h *handler.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealthCheck)
		r.Get("/runs", h.HandleRuns)
		r.Get("/categories", h.HandleCategories)
	})

	return r
}
