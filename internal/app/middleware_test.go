package app

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/stu-kho/kho-console/internal/backend"
	"github.com/stu-kho/kho-console/internal/shared"
)

func TestSessionCommittedBeforeBody(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := shared.NewSessionManager(client, "kho_session", time.Hour, false)

	var seenToken string
	handler := SessionMiddleware(sessions, slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		seenToken = backend.TokenFromContext(r.Context())
		sess.SignIn([]byte(`{"maNguoiDung":1}`), "tok-1")
		_, _ = w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, "ok", rr.Body.String())
	require.Empty(t, seenToken)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	require.True(t, mr.Exists("kho:session:"+cookies[0].Value))

	// The next request carries the stored backend token.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, "tok-1", seenToken)
}

func TestCSRFAllowsSafeMethods(t *testing.T) {
	csrf := shared.NewCSRFManager("secret")
	handler := CSRFMiddleware(csrf, slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/", nil))
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CSRF_SECRET", "x")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 5, cfg.DefaultPageSize)
	require.Equal(t, 720*time.Hour, cfg.VoucherEditWindow)
	require.False(t, cfg.IsProduction())
}
