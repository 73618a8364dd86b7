package vouchers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/stu-kho/kho-console/internal/backend"
	"github.com/stu-kho/kho-console/internal/rbac"
	"github.com/stu-kho/kho-console/internal/shared"
)

type fakeBackend struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	f.mu.Unlock()
	switch {
	case r.Method == http.MethodGet && r.URL.Path == ExportPath:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"maPhieuXuat":1,"trangThai":1,"ngayLapPhieu":"2025-03-01T08:00:00","maKH":4,"maKho":9,"tongTien":120000},
			{"maPhieuXuat":2,"trangThai":2,"ngayLapPhieu":"2025-03-05T08:00:00","maKH":4,"maKho":9,"tongTien":5000}
		]`))
	case r.Method == http.MethodGet && r.URL.Path == ExportPath+"/3":
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"maPhieuXuat":3,"trangThai":2,"ngayLapPhieu":"2025-01-15T08:00:00","maKH":4,"maKho":9,"tongTien":800}`))
	case r.Method == http.MethodPut:
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/approve"):
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet && r.URL.Path == ExportPath+"/1/print":
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	case r.URL.Path == "/nguoidung":
		w.WriteHeader(http.StatusInternalServerError)
	case r.Method == http.MethodGet:
		_, _ = w.Write([]byte(`[]`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func exportRouter(t *testing.T, fb *fakeBackend) (http.Handler, context.Context, *shared.Session) {
	t.Helper()
	return exportRouterAs(t, fb, `{"vaiTro":"USER","dsQuyenSoHuu":[27,42]}`)
}

func exportRouterAs(t *testing.T, fb *fakeBackend, payload string) (http.Handler, context.Context, *shared.Session) {
	t.Helper()
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	client := backend.NewClient(srv.URL, time.Second, nil)
	repo := NewExportRepository(client)
	pol := testPolicy()
	h := NewHandler(nil,
		NewExportConfig(repo, &stockStub{}, pol, nil, 5),
		repo.Resource(), pol, NewLookupLoader(client, nil),
		Kind{PrintPrefix: "PhieuXuat", Partner: CustomerPartner}, 0)
	r := chi.NewRouter()
	h.MountRoutes(r)

	p := principal(t, payload)
	sess := &shared.Session{ID: "s1"}
	ctx := rbac.WithPrincipal(shared.ContextWithSession(context.Background(), sess), p)
	return r, ctx, sess
}

func do(h http.Handler, ctx context.Context, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil).WithContext(ctx))
	return rec
}

func TestListIsNewestFirstWithActions(t *testing.T) {
	fb := &fakeBackend{}
	h, ctx, _ := exportRouter(t, fb)

	rec := do(h, ctx, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Rows []struct {
			Record  Export   `json:"record"`
			Actions []string `json:"actions"`
		} `json:"rows"`
		Toolbar struct {
			Trash bool `json:"trash"`
		} `json:"toolbar"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Rows, 2)
	require.Equal(t, int64(2), view.Rows[0].Record.ID)
	require.Equal(t, []string{"view", "print"}, view.Rows[0].Actions)
	require.Equal(t, []string{"view", "print", "approve"}, view.Rows[1].Actions)
	require.False(t, view.Toolbar.Trash)
}

func doJSON(h http.Handler, ctx context.Context, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	return rec
}

func TestEditOfOldApprovedVoucherStaysLocal(t *testing.T) {
	fb := &fakeBackend{}
	h, ctx, sess := exportRouterAs(t, fb, `{"vaiTro":"USER","dsQuyenSoHuu":[27,121]}`)

	rec := doJSON(h, ctx, http.MethodPut, "/3", `{}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), "Quá hạn sửa")
	require.Equal(t, []string{"GET /phieuxuat/3"}, fb.Calls())
	sess.DrainNotices()

	rec = doJSON(h, ctx, http.MethodPost, "/modal", `{"kind":"edit","id":3}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "Quá hạn sửa")
	require.Contains(t, rec.Body.String(), `"modal":{"kind":"none"`)
	for _, call := range fb.Calls() {
		require.NotContains(t, call, "PUT")
	}
}

func TestApproveRejectsNonPendingWithoutBackendCall(t *testing.T) {
	fb := &fakeBackend{}
	h, ctx, _ := exportRouter(t, fb)
	do(h, ctx, http.MethodGet, "/")

	rec := do(h, ctx, http.MethodPost, "/2/approve")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "Chỉ duyệt được phiếu đang chờ.")
	require.Equal(t, []string{"GET /phieuxuat"}, fb.Calls())
}

func TestApprovePendingCallsBackendAndReloads(t *testing.T) {
	fb := &fakeBackend{}
	h, ctx, _ := exportRouter(t, fb)
	do(h, ctx, http.MethodGet, "/")

	rec := do(h, ctx, http.MethodPost, "/1/approve")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Đã duyệt!")
	require.Equal(t, []string{"GET /phieuxuat", "POST /phieuxuat/1/approve", "GET /phieuxuat"}, fb.Calls())
}

func TestCancelNeedsPermission(t *testing.T) {
	fb := &fakeBackend{}
	h, ctx, _ := exportRouter(t, fb)

	rec := do(h, ctx, http.MethodPost, "/1/cancel")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Empty(t, fb.Calls())
}

func TestPrintStreamsDocument(t *testing.T) {
	fb := &fakeBackend{}
	h, ctx, _ := exportRouter(t, fb)

	rec := do(h, ctx, http.MethodGet, "/1/print")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	require.Equal(t, "attachment; filename=PhieuXuat_1.pdf", rec.Header().Get("Content-Disposition"))
	require.Equal(t, "%PDF-1.4", rec.Body.String())
}

func TestLookupsSettleIndependently(t *testing.T) {
	fb := &fakeBackend{}
	h, ctx, _ := exportRouter(t, fb)

	rec := do(h, ctx, http.MethodGet, "/lookups")
	require.Equal(t, http.StatusOK, rec.Code)

	var got Lookups
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, []string{"users"}, got.Failed)
	require.NotNil(t, got.Warehouses)
	require.Empty(t, got.Users)
	require.ElementsMatch(t, []string{"GET /kho", "GET /sanpham", "GET /nguoidung", "GET /khachhang"}, fb.Calls())
}
