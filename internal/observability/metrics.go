// Package observability holds the Prometheus collectors of the console.
package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the console request metrics and the backend call metrics
// on a private registry, next to the Go runtime and process collectors.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	backendCalls    *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(registry)
	return &Metrics{
		registry: registry,
		handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kho_http_requests_total",
			Help: "Console HTTP requests by route and status.",
		}, []string{"route", "code"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kho_http_request_duration_seconds",
			Help:    "Console HTTP request duration by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		backendCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kho_backend_requests_total",
			Help: "Warehouse API calls by method, resource and status.",
		}, []string{"method", "resource", "code"}),
		backendDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kho_backend_request_duration_seconds",
			Help:    "Warehouse API call duration by resource.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"resource"}),
	}
}

// Handler serves /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records every console request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveBackend records one warehouse API call. Only the first path segment
// is used as label so record ids do not explode the series count.
func (m *Metrics) ObserveBackend(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	resource := resourceOf(path)
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.backendCalls.WithLabelValues(method, resource, code).Inc()
	m.backendDuration.WithLabelValues(resource).Observe(elapsed.Seconds())
}

// Registerer exposes the registry for the job collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}

func resourceOf(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "/"
	}
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return "/" + trimmed
}
