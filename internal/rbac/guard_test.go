package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/stu-kho/kho-console/internal/shared"
)

func guardedRequest(t *testing.T, userInfo string, permID PermissionID, accept string) *httptest.ResponseRecorder {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(client, "kho_session", time.Hour, false)

	req := httptest.NewRequest(http.MethodGet, "/vouchers/imports", nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	sess, err := sessions.Load(context.Background(), req)
	require.NoError(t, err)
	if userInfo != "" {
		sess.SignIn([]byte(userInfo), "token")
	}
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	provider := NewProvider(nil, nil)
	guard := Guard{LoginPath: "/auth/login"}
	handler := provider.Middleware(guard.Require(permID)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGuardUnauthenticatedRedirectsBrowsers(t *testing.T) {
	rec := guardedRequest(t, "", ImportView, "text/html,application/xhtml+xml")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/auth/login", rec.Header().Get("Location"))
}

func TestGuardUnauthenticatedAPI(t *testing.T) {
	rec := guardedRequest(t, "", ImportView, "application/json")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuardForbiddenInPlace(t *testing.T) {
	rec := guardedRequest(t, `{"vaiTro":"USER","dsQuyenSoHuu":[27]}`, ImportView, "text/html")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Empty(t, rec.Header().Get("Location"))
}

func TestGuardAuthorized(t *testing.T) {
	rec := guardedRequest(t, `{"vaiTro":"USER","dsQuyenSoHuu":[26]}`, ImportView, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGuardAuthOnlyRoute(t *testing.T) {
	rec := guardedRequest(t, `{"vaiTro":"USER"}`, None, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGuardMalformedSessionIsUnauthenticated(t *testing.T) {
	rec := guardedRequest(t, `{"vaiTro":`, None, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEvaluateOutcomes(t *testing.T) {
	user := mustDecode(t, `{"vaiTro":"USER","dsQuyenSoHuu":[26]}`)
	require.Equal(t, Unauthenticated, Evaluate(Anonymous, None))
	require.Equal(t, Forbidden, Evaluate(user, ExportView))
	require.Equal(t, Authorized, Evaluate(user, ImportView))
	require.ErrorIs(t, Check(user, ExportView), ErrForbidden)
	require.ErrorIs(t, Check(Anonymous, ExportView), ErrUnauthenticated)
}

func TestProviderRefreshAfterLogin(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(client, "kho_session", time.Hour, false)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	sess, err := sessions.Load(context.Background(), req)
	require.NoError(t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	provider := NewProvider(nil, nil)
	var before, after Principal
	handler := provider.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		before = PrincipalFromContext(r.Context())
		sess.SignIn([]byte(`{"maNguoiDung":2,"vaiTro":"USER","dsQuyenSoHuu":[14]}`), "tok")
		provider.Refresh(r.Context())
		after = PrincipalFromContext(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.False(t, before.Authenticated())
	require.True(t, after.Authenticated())
	require.True(t, Has(after, UsersView))
}

func TestProviderTokenCheckRejects(t *testing.T) {
	ctx := context.Background()
	sess := &shared.Session{}
	sess.SignIn([]byte(`{"vaiTro":"ADMIN"}`), "expired")
	ctx = shared.ContextWithSession(ctx, sess)

	provider := NewProvider(nil, func(token string) error { return ErrUnauthenticated })
	p := provider.Refresh(ctx)
	require.False(t, p.Authenticated())
}
