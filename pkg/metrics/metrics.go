// Package metrics exposes Prometheus collectors for record stores and the
// HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stockcount/pkg/record"
)

// Metrics groups the collectors registered by New.
type Metrics struct {
	registry      *prometheus.Registry
	mutations     *prometheus.CounterVec
	persistErrors *prometheus.CounterVec
	records       *prometheus.GaugeVec
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New registers the collectors in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockcount",
			Name:      "store_operations_total",
			Help:      "Record store operations by storage key and operation.",
		}, []string{"store", "op"}),
		persistErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockcount",
			Name:      "store_persist_errors_total",
			Help:      "Failed document writes by storage key.",
		}, []string{"store"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "stockcount",
			Name:      "store_records",
			Help:      "Records currently held by each store.",
		}, []string{"store"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockcount",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stockcount",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	m.registry.MustRegister(m.mutations, m.persistErrors, m.records, m.requests, m.latency)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observe subscribes to store changes. The returned function unsubscribes.
func Observe[T any](m *Metrics, s *record.Store[T]) func() {
	name := s.StorageKey()
	m.records.WithLabelValues(name).Set(float64(s.Len()))
	return s.Subscribe(func(c record.Change[T]) {
		m.mutations.WithLabelValues(name, c.Op.String()).Inc()
		if c.Err != nil {
			m.persistErrors.WithLabelValues(name).Inc()
		}
		m.records.WithLabelValues(name).Set(float64(len(c.Records)))
	})
}

// Middleware records request counts and latency.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)
		m.requests.WithLabelValues(r.Method, strconv.Itoa(sw.code)).Inc()
		m.latency.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
