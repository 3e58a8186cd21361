package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestsTotal       prometheus.Counter
	RateLimitDropsTotal prometheus.Counter

	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	UpstreamErrors  *prometheus.CounterVec
	UpstreamLatency *prometheus.HistogramVec

	EnrichmentDegraded *prometheus.CounterVec

	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec
	Registry            *prometheus.Registry
}

// Create Prometheus collectors and register them
func NewMetrics(p *prometheus.Registry) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pinpoint_requests_total",
			Help: "Total number of incoming place-search requests",
		}),
		RateLimitDropsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pinpoint_ratelimit_drops_total",
			Help: "Requests dropped due to rate limiting",
		}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pinpoint_cache_hits_total",
			Help: "Cache hits per cache class",
		}, []string{"cache"},
		),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pinpoint_cache_misses_total",
			Help: "Cache misses per cache class",
		}, []string{"cache"},
		),
		UpstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upstream_errors_total",
			Help: "Errors returned by each upstream source",
		}, []string{"upstream"},
		),
		UpstreamLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "upstream_latency_seconds",
				Help:    "Latency of calls to upstream sources",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"upstream"},
		),
		EnrichmentDegraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "enrichment_degraded_total",
			Help: "Candidates that fell back to their summary, per enrichment stage",
		}, []string{"stage"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		Registry: p,
	}

	// Register metrics with Prometheus
	p.MustRegister(
		m.RequestsTotal,
		m.RateLimitDropsTotal,
		m.CacheHits,
		m.CacheMisses,
		m.UpstreamErrors,
		m.UpstreamLatency,
		m.EnrichmentDegraded,
		m.HTTPRequestDuration,
		m.HTTPRequestsTotal,
	)

	return m
}

func (m *Metrics) IncRequests() { m.RequestsTotal.Inc() }

func (m *Metrics) IncRateLimitDrops() { m.RateLimitDropsTotal.Inc() }

func (m *Metrics) IncCacheHit(cache string)  { m.CacheHits.WithLabelValues(cache).Inc() }
func (m *Metrics) IncCacheMiss(cache string) { m.CacheMisses.WithLabelValues(cache).Inc() }

func (m *Metrics) IncUpstreamError(upstream string) {
	m.UpstreamErrors.WithLabelValues(upstream).Inc()
}

func (m *Metrics) ObserveUpstreamLatency(upstream string, seconds float64) {
	m.UpstreamLatency.WithLabelValues(upstream).Observe(seconds)
}

func (m *Metrics) IncEnrichmentDegraded(stage string) {
	m.EnrichmentDegraded.WithLabelValues(stage).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
