package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/burhanuddin20/pinpoint/internal/cache"
	"github.com/burhanuddin20/pinpoint/internal/config"
	handlers "github.com/burhanuddin20/pinpoint/internal/http"
	"github.com/burhanuddin20/pinpoint/internal/httpclient"
	"github.com/burhanuddin20/pinpoint/internal/models"
	"github.com/burhanuddin20/pinpoint/internal/obs"
	"github.com/burhanuddin20/pinpoint/internal/places"
	"github.com/burhanuddin20/pinpoint/internal/routes"
	"github.com/burhanuddin20/pinpoint/internal/search"
	"github.com/burhanuddin20/pinpoint/internal/social"
)

const (
	rateLimitPerWindow = 60
	rateLimitWindow    = time.Minute
)

type App struct {
	Router  http.Handler
	Search  *search.Service
	Social  *social.Aggregator
	Metrics *obs.Metrics
}

// New wires the whole dependency graph. Caches are constructed here and
// injected; nothing hangs off package-level state.
func New(cfg *config.Config, logger *slog.Logger) *App {
	registry := prometheus.NewRegistry()
	metrics := obs.NewMetrics(registry)

	hc := httpclient.New(logger)
	placesClient := places.NewClient(hc, cfg.GooglePlacesKey, places.DefaultBaseURL, metrics)

	finder := social.NewFinder(newWebSearcher(cfg.Social, hc), logger, metrics)
	embedCache := cache.New[social.Embed]("oembed", metrics)
	resolver := social.NewResolver(hc, embedCache, cfg.Social.IGAppID, cfg.Social.IGAppToken, logger, metrics)
	socialCache := cache.New[[]social.Embed]("social", metrics)
	aggregator := social.NewAggregator(finder, resolver, socialCache, logger, metrics)

	resultCache := cache.New[[]models.EnrichedPOI]("results", metrics)
	svc := search.NewService(placesClient, aggregator, resultCache, metrics, logger)

	rl := search.NewIPRateLimiter(rateLimitPerWindow, rateLimitWindow)
	h := handlers.NewHandler(svc, aggregator, rl, metrics)

	router := routes.GetRoutes(h, metrics, logger)

	return &App{
		Router:  router,
		Search:  svc,
		Social:  aggregator,
		Metrics: metrics,
	}
}

func newWebSearcher(cfg config.SocialConfig, hc *httpclient.Client) social.WebSearcher {
	switch cfg.Provider {
	case config.SearchProviderSerpAPI:
		return social.NewSerpAPISearcher(hc, cfg.SerpAPIKey, "")
	default:
		return social.NewBingSearcher(hc, cfg.BingKey, "")
	}
}
