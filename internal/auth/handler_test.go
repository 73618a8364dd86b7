package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stu-kho/kho-console/internal/auth"
	"github.com/stu-kho/kho-console/internal/backend"
	"github.com/stu-kho/kho-console/internal/rbac"
	"github.com/stu-kho/kho-console/internal/shared"
	_ "github.com/stu-kho/kho-console/testing"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "lan",
		"exp": exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

type forgetter struct{ ids []string }

func (f *forgetter) Forget(id string) { f.ids = append(f.ids, id) }

type harness struct {
	router   http.Handler
	sessions *shared.SessionManager
	calls    *atomic.Int32
	forget   *forgetter
	cookie   *http.Cookie
}

func newHarness(t *testing.T, token string) *harness {
	t.Helper()
	calls := &atomic.Int32{}
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var creds auth.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if r.URL.Path != auth.LoginPath || creds.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Sai mật khẩu"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"maNguoiDung":  7,
			"hoTen":        "Lan",
			"vaiTro":       "USER",
			"dsQuyenSoHuu": []any{26, "27", map[string]any{"maQuyen": 30}},
			"token":        token,
		})
	}))
	t.Cleanup(backendSrv.Close)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(client, "kho_session", time.Hour, false)

	service := auth.NewService(auth.NewRepository(backend.NewClient(backendSrv.URL, time.Second, nil)))
	provider := rbac.NewProvider(nil, service.CheckToken)
	forget := &forgetter{}
	handler := auth.NewHandler(nil, service, sessions, shared.NewCSRFManager("csrf"), provider, forget)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := sessions.Load(req.Context(), req)
			require.NoError(t, err)
			ctx := shared.ContextWithSession(req.Context(), sess)
			inner := httptest.NewRecorder()
			next.ServeHTTP(inner, req.WithContext(ctx))
			require.NoError(t, sessions.Commit(ctx, w, sess))
			for k, v := range inner.Header() {
				w.Header()[k] = v
			}
			w.WriteHeader(inner.Code)
			_, _ = w.Write(inner.Body.Bytes())
		})
	})
	r.Use(provider.Middleware)
	r.Route("/auth", handler.MountRoutes)
	r.Group(func(r chi.Router) {
		r.Use(rbac.Guard{}.RequireAuth())
		handler.MountAccount(r)
	})
	return &harness{router: r, sessions: sessions, calls: calls, forget: forget}
}

func (h *harness) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == h.sessions.CookieName() {
			h.cookie = c
		}
	}
	return rec
}

func TestLoginStoresIdentityAndToken(t *testing.T) {
	h := newHarness(t, signedToken(t, time.Now().Add(time.Hour)))

	rec := h.do(t, http.MethodPost, "/auth/login", `{"tenDangNhap":" lan ","matKhau":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Profile auth.Profile   `json:"profile"`
		Menu    []rbac.NavItem `json:"menu"`
		Notices []shared.Notice
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "7", body.Profile.UserID)
	assert.Equal(t, "Lan", body.Profile.FullName)
	assert.Equal(t, []rbac.PermissionID{26, 27, 30}, body.Profile.Permissions)
	assert.False(t, body.Profile.Admin)
	require.Len(t, body.Notices, 1)
	assert.Equal(t, "Đăng nhập thành công!", body.Notices[0].Message)

	rec = h.do(t, http.MethodGet, "/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fullName":"Lan"`)

	rec = h.do(t, http.MethodGet, "/nav", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/vouchers/imports")
	assert.Contains(t, rec.Body.String(), "/reports")
	assert.NotContains(t, rec.Body.String(), "/system-log")
}

func TestLogoutDestroysSessionAndForgetsLists(t *testing.T) {
	h := newHarness(t, signedToken(t, time.Now().Add(time.Hour)))
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/auth/login", `{"tenDangNhap":"lan","matKhau":"secret"}`).Code)
	sessionID := h.cookie.Value

	rec := h.do(t, http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, []string{sessionID}, h.forget.ids)

	rec = h.do(t, http.MethodGet, "/me", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	h := newHarness(t, signedToken(t, time.Now().Add(time.Hour)))

	rec := h.do(t, http.MethodPost, "/auth/login", `{"tenDangNhap":"lan","matKhau":"nope"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sai tên đăng nhập hoặc mật khẩu!")

	rec = h.do(t, http.MethodGet, "/me", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginFormIsValidatedLocally(t *testing.T) {
	h := newHarness(t, signedToken(t, time.Now().Add(time.Hour)))

	rec := h.do(t, http.MethodPost, "/auth/login", `{"tenDangNhap":"","matKhau":"secret"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Vui lòng nhập tên đăng nhập!")
	assert.Zero(t, h.calls.Load())
}

func TestLoginWithExpiredTokenIsRefused(t *testing.T) {
	h := newHarness(t, signedToken(t, time.Now().Add(-time.Minute)))

	rec := h.do(t, http.MethodPost, "/auth/login", `{"tenDangNhap":"lan","matKhau":"secret"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginPageIssuesCSRFToken(t *testing.T) {
	h := newHarness(t, "opaque")

	rec := h.do(t, http.MethodGet, "/auth/login", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var state struct {
		CSRFToken     string `json:"csrfToken"`
		Authenticated bool   `json:"authenticated"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.NotEmpty(t, state.CSRFToken)
	assert.False(t, state.Authenticated)
}

func TestCheckToken(t *testing.T) {
	svc := auth.NewService(nil)

	require.NoError(t, svc.CheckToken("opaque-token"))
	require.NoError(t, svc.CheckToken(signedToken(t, time.Now().Add(time.Hour))))
	require.ErrorIs(t, svc.CheckToken(""), auth.ErrTokenMissing)
	require.ErrorIs(t, svc.CheckToken(signedToken(t, time.Now().Add(-time.Hour))), auth.ErrTokenExpired)
}
