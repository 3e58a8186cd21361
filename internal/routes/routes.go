package routes

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	handlers "github.com/burhanuddin20/pinpoint/internal/http"
	mid "github.com/burhanuddin20/pinpoint/internal/middleware"
	"github.com/burhanuddin20/pinpoint/internal/obs"
)

func GetRoutes(h *handlers.Handler, metrics *obs.Metrics, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	// Useful built-in middlewares
	r.Use(middleware.RealIP)    // proper client IP extraction
	r.Use(middleware.RequestID) // sets request ID header
	r.Use(middleware.Recoverer) // built-in recoverer to avoid panics taking server down

	// our custom middlewares: logging, metrics & timeout
	r.Use(mid.MetricsMiddleware(metrics))
	r.Use(mid.LoggingMiddleware(logger))
	r.Use(mid.TimeoutMiddleware(15 * time.Second))

	// endpoints
	r.Get("/health", h.Healthz)
	r.Get("/search", h.Search)
	r.Post("/search", h.Search)
	r.Get("/places/nearby", h.Nearby)
	r.Get("/places/social", h.Social)
	r.Get("/places/{id}/details", h.Details)
	r.Get("/metrics", metrics.Handler().ServeHTTP)

	return r
}
