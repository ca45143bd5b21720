// Package metrics exposes Prometheus instrumentation for acquisition, computation and the HTTP API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors of the dashboard.
type Metrics struct {
	AnalysesTotal *prometheus.CounterVec // labels: result=ok|no_data|invalid|error
	FetchDur      *prometheus.HistogramVec
	ComputeDur    prometheus.Histogram
	BarsFetched   prometheus.Histogram
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
	HTTPRequests  *prometheus.CounterVec // labels: route, status

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses a fresh private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_analyses_total",
			Help: "Analyses run, by outcome",
		}, []string{"result"}),
		FetchDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_fetch_duration_seconds",
			Help:    "Historical quote retrieval latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		ComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_compute_duration_seconds",
			Help:    "Indicator and statistics computation latency per analysis",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		BarsFetched: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_bars_fetched",
			Help:    "Daily bars per retrieved series",
			Buckets: []float64{1, 5, 22, 66, 126, 252, 504, 1260},
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_cache_hits_total",
			Help: "Series served from the Redis cache",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_cache_misses_total",
			Help: "Series fetched from the provider after a cache miss",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "HTTP requests served, by route and status code",
		}, []string{"route", "status"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.AnalysesTotal,
		m.FetchDur,
		m.ComputeDur,
		m.BarsFetched,
		m.CacheHits,
		m.CacheMisses,
		m.HTTPRequests,
	)
	return m
}

// Handler returns the /metrics HTTP handler for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveFetch records a retrieval duration for source.
func (m *Metrics) ObserveFetch(source string, start time.Time) {
	if m == nil {
		return
	}
	m.FetchDur.WithLabelValues(source).Observe(time.Since(start).Seconds())
}

// IncAnalysis counts an analysis outcome.
func (m *Metrics) IncAnalysis(result string) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(result).Inc()
}
