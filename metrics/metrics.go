// Package metrics holds the Prometheus collectors of the place server.
// All recording methods are no-ops on a nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "place"

type Metrics struct {
	registry *prometheus.Registry

	reqTotal     *prometheus.CounterVec
	reqDuration  *prometheus.HistogramVec
	loadFailures *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	refreshes    *prometheus.CounterVec
	lastRefresh  prometheus.Gauge
}

// New registers every collector on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.reqTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "code"})
	m.reqDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	m.loadFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dataset_load_failures_total",
		Help:      "Datasets that could not be read and were served empty",
	}, []string{"dataset"})
	m.cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "series_cache_lookups_total",
		Help:      "Synthetic series cache lookups by result",
	}, []string{"result"})
	m.refreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "series_refresh_runs_total",
		Help:      "Scheduled series cache refreshes by status",
	}, []string{"status"})
	m.lastRefresh = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "series_refresh_last_success_timestamp_seconds",
		Help:      "Unix time of the last successful series refresh",
	})

	m.registry.MustRegister(
		m.reqTotal, m.reqDuration, m.loadFailures, m.cacheLookups, m.refreshes, m.lastRefresh,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(route, method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.reqTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.reqDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) DatasetLoadFailed(dataset string) {
	if m == nil {
		return
	}
	m.loadFailures.WithLabelValues(dataset).Inc()
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("hit").Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// RefreshCompleted records a refresher run.
func (m *Metrics) RefreshCompleted(err error, at time.Time) {
	if m == nil {
		return
	}
	if err != nil {
		m.refreshes.WithLabelValues("error").Inc()
		return
	}
	m.refreshes.WithLabelValues("ok").Inc()
	m.lastRefresh.Set(float64(at.Unix()))
}
