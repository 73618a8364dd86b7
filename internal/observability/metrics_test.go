package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/test")

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, metrics)
	require.Contains(t, body, `kho_http_requests_total{code="418",route="/test"} 1`)
	require.Contains(t, body, `kho_http_request_duration_seconds_bucket{route="/test"`)
}

func TestObserveBackendUsesFirstSegment(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveBackend(http.MethodPost, "/phieuxuat/12/approve", 200, 20*time.Millisecond)
	metrics.ObserveBackend(http.MethodGet, "/kho", 0, time.Second)

	body := scrape(t, metrics)
	require.Contains(t, body, `kho_backend_requests_total{code="200",method="POST",resource="/phieuxuat"} 1`)
	require.Contains(t, body, `kho_backend_requests_total{code="error",method="GET",resource="/kho"} 1`)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveBackend(http.MethodGet, "/kho", 200, time.Millisecond)

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestResourceOf(t *testing.T) {
	require.Equal(t, "/", resourceOf(""))
	require.Equal(t, "/sanpham", resourceOf("/sanpham/search"))
	require.Equal(t, "/auth", resourceOf("auth/login"))
}
