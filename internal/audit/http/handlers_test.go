package audithttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/stu-kho/kho-console/internal/audit"
)

type stubTimelineService struct {
	result      audit.Result
	exportRows  []audit.TimelineRow
	lastFilters audit.TimelineFilters
}

func (s *stubTimelineService) Timeline(_ context.Context, filters audit.TimelineFilters) (audit.Result, error) {
	s.lastFilters = filters
	return s.result, nil
}

func (s *stubTimelineService) Export(_ context.Context, filters audit.TimelineFilters) ([]audit.TimelineRow, error) {
	s.lastFilters = filters
	return s.exportRows, nil
}

func newRouter(svc *stubTimelineService) http.Handler {
	h := NewHandler(nil, svc)
	h.now = func() time.Time { return time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC) }
	r := chi.NewRouter()
	r.Route("/system-log", h.MountRoutes)
	return r
}

func TestTimelineParsesFilters(t *testing.T) {
	svc := &stubTimelineService{result: audit.Result{Rows: []audit.TimelineRow{{Actor: "Lan", Action: "delete"}}, Paging: audit.PagingInfo{Page: 2, PageSize: 10}}}
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/system-log?page=2&size=10&entity=customers&from=2025-03-01&to=2025-03-05", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, svc.lastFilters.Page)
	require.Equal(t, 10, svc.lastFilters.PageSize)
	require.Equal(t, "customers", svc.lastFilters.Entity)
	require.Equal(t, 6, svc.lastFilters.To.Day())

	var body audit.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Lan", body.Rows[0].Actor)
}

func TestTimelineRejectsReversedRange(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&stubTimelineService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/system-log?from=2025-03-05&to=2025-03-01", nil))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestExportCSV(t *testing.T) {
	svc := &stubTimelineService{exportRows: []audit.TimelineRow{{Actor: "Lan", ActionLabel: "Xóa", Entity: "customers", EntityID: "4"}}}
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/system-log/export.csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "attachment; filename=nhat_ky_20250317.csv", rec.Header().Get("Content-Disposition"))
	require.Contains(t, rec.Body.String(), "Lan,Xóa,customers,4")
}
