package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestSessions(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionManager(client, "kho_session", time.Hour, false), mr
}

func TestSessionRoundTripThroughCookie(t *testing.T) {
	sm, mr := newTestSessions(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.SignIn([]byte(`{"vaiTro":"USER"}`), "bearer-1")
	sess.AddNotice(Notice{Kind: NoticeSuccess, Message: "Đã lưu"})

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, sess))
	require.True(t, mr.Exists("kho:session:"+sess.ID))
	require.Equal(t, time.Hour, mr.TTL("kho:session:"+sess.ID))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])

	loaded, err := sm.Load(ctx, next)
	require.NoError(t, err)
	require.Equal(t, sess.ID, loaded.ID)
	require.Equal(t, `{"vaiTro":"USER"}`, string(loaded.UserInfo()))
	require.Equal(t, "bearer-1", loaded.BackendToken())
	require.Equal(t, []Notice{{Kind: NoticeSuccess, Message: "Đã lưu"}}, loaded.DrainNotices())
	require.Nil(t, loaded.DrainNotices())
}

func TestUnknownSessionIDIsNotReused(t *testing.T) {
	sm, _ := newTestSessions(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "kho_session", Value: "attacker-chosen"})

	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	require.NotEqual(t, "attacker-chosen", sess.ID)
	require.Nil(t, sess.UserInfo())
}

func TestDestroyRemovesSession(t *testing.T) {
	sm, mr := newTestSessions(t)
	ctx := context.Background()
	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.SignIn([]byte(`{}`), "t")
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), sess))

	sm.Destroy(sess)
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, sess))
	require.False(t, mr.Exists("kho:session:"+sess.ID))
	require.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
}

func TestRenewMovesSessionToNewID(t *testing.T) {
	sm, mr := newTestSessions(t)
	ctx := context.Background()
	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.Set("list:units", "{}")
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), sess))
	oldID := sess.ID

	sm.Renew(sess)
	require.NotEqual(t, oldID, sess.ID)
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, sess))
	require.False(t, mr.Exists("kho:session:"+oldID))
	require.True(t, mr.Exists("kho:session:"+sess.ID))
	require.Equal(t, sess.ID, rec.Result().Cookies()[0].Value)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(rec.Result().Cookies()[0])
	loaded, err := sm.Load(ctx, next)
	require.NoError(t, err)
	require.Equal(t, "{}", loaded.Get("list:units"))
}

func TestLoadSlidesExpiry(t *testing.T) {
	sm, mr := newTestSessions(t)
	ctx := context.Background()
	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, sess))

	mr.FastForward(45 * time.Minute)
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(rec.Result().Cookies()[0])
	_, err = sm.Load(ctx, next)
	require.NoError(t, err)
	require.Equal(t, time.Hour, mr.TTL("kho:session:"+sess.ID))
}

func TestSignOutKeepsOtherValues(t *testing.T) {
	sess := &Session{}
	sess.Set("list:categories", `{"trashMode":true}`)
	sess.SignIn([]byte(`{}`), "t")
	sess.SignOut()
	require.Nil(t, sess.UserInfo())
	require.Empty(t, sess.BackendToken())
	require.Equal(t, `{"trashMode":true}`, sess.Get("list:categories"))
}

func TestCSRFTokenBoundToSession(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := &Session{ID: "s1"}
	token, err := m.EnsureToken(sess)
	require.NoError(t, err)
	again, err := m.EnsureToken(sess)
	require.NoError(t, err)
	require.Equal(t, token, again)

	require.NoError(t, m.VerifyToken(sess, token))
	require.ErrorIs(t, m.VerifyToken(sess, "forged"), ErrCSRFTokenMismatch)
	require.ErrorIs(t, m.VerifyToken(sess, ""), ErrCSRFTokenMissing)

	rotated, err := m.Rotate(sess)
	require.NoError(t, err)
	require.NotEqual(t, token, rotated)
	require.ErrorIs(t, m.VerifyToken(sess, token), ErrCSRFTokenMismatch)
	require.NoError(t, m.VerifyToken(sess, rotated))

	// Copied into another session the value no longer signs.
	other := &Session{ID: "s2"}
	other.Set(CSRFSessionKey, rotated)
	require.ErrorIs(t, m.VerifyToken(other, rotated), ErrCSRFTokenMismatch)
}

func TestPaginationWindow(t *testing.T) {
	p := NewPagination(1, 2, 3, 5)
	start, end := p.Window(3)
	require.Equal(t, 0, start)
	require.Equal(t, 2, end)
	require.Equal(t, 2, p.TotalPages())

	p = NewPagination(4, 2, 3, 5)
	start, end = p.Window(3)
	require.Equal(t, start, end)

	p = NewPagination(0, 0, -1, 0)
	require.Equal(t, Pagination{Current: 1, PageSize: 5, Total: 0}, p)
}
