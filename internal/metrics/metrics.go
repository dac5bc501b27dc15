// Package metrics exposes LinkPulse counters in the Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "linkpulse"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	enrichments   *prometheus.CounterVec
	enrichLatency prometheus.Histogram
	linkEvents    *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New registers every collector. linkCount, when not nil, backs the
// linkpulse_links gauge.
func New(linkCount func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		enrichments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichments_total",
			Help:      "Enrichment attempts by outcome (enriched, defaulted or fallback).",
		}, []string{"outcome"}),
		enrichLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "enrichment_duration_seconds",
			Help:      "Time spent producing an enrichment.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		}),
		linkEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "link_events_total",
			Help:      "Link mutations by kind.",
		}, []string{"event"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.enrichments,
		m.enrichLatency,
		m.linkEvents,
		m.httpRequests,
		m.httpDuration,
	)

	if linkCount != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "links",
			Help:      "Links currently in the collection.",
		}, func() float64 { return float64(linkCount()) }))
	}

	return m
}

// ObserveEnrichment implements enrich.Recorder.
func (m *Metrics) ObserveEnrichment(outcome string, elapsed time.Duration) {
	m.enrichments.WithLabelValues(outcome).Inc()
	m.enrichLatency.Observe(elapsed.Seconds())
}

func (m *Metrics) LinkCreated() { m.linkEvents.WithLabelValues("created").Inc() }
func (m *Metrics) LinkDeleted() { m.linkEvents.WithLabelValues("deleted").Inc() }
func (m *Metrics) LinkVisited() { m.linkEvents.WithLabelValues("visited").Inc() }

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records one sample per request, labelled with the chi route
// pattern rather than the raw path to keep cardinality bounded.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
