package shared

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// UserInfoKey holds the raw user payload returned by the backend at login.
	UserInfoKey = "user_info"
	// BackendTokenKey holds the bearer token forwarded to the backend.
	BackendTokenKey = "backend_token"

	sessionKeyPrefix = "kho:session:"
)

// Notice is a short-lived, user-visible message (success, error, warning, info).
type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	NoticeSuccess = "success"
	NoticeError   = "error"
	NoticeWarning = "warning"
	NoticeInfo    = "info"
)

// SessionManager keeps cookie sessions in Redis. Each load slides the
// expiry forward by the configured TTL.
type SessionManager struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
}

// Session is the per-request view of a stored session. Changes are written
// back by SessionManager.Commit.
type Session struct {
	ID string

	values  map[string]string
	notices []Notice

	// replaced is the ID dropped by Renew, deleted on commit.
	replaced  string
	state     sessionState
	destroyed bool
}

type sessionState uint8

const (
	stateClean sessionState = iota
	stateDirty
	stateFresh
)

type storedSession struct {
	Values  map[string]string `json:"values"`
	Notices []Notice          `json:"notices,omitempty"`
}

func NewSessionManager(client *redis.Client, cookieName string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{client: client, cookieName: cookieName, ttl: ttl, secure: secure}
}

func (sm *SessionManager) TTL() time.Duration { return sm.ttl }

func (sm *SessionManager) CookieName() string { return sm.cookieName }

// Load returns the session named by the request cookie. A missing cookie or
// an ID Redis does not know starts a fresh session under a server-chosen ID.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(sm.cookieName)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && cookie.Value == "") {
		return fresh(), nil
	}
	if err != nil {
		return nil, err
	}

	raw, err := sm.client.GetEx(ctx, sessionKeyPrefix+cookie.Value, sm.ttl).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return fresh(), nil
	case err != nil:
		return nil, fmt.Errorf("load session: %w", err)
	}

	var stored storedSession
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if stored.Values == nil {
		stored.Values = make(map[string]string)
	}
	return &Session{ID: cookie.Value, values: stored.Values, notices: stored.Notices}, nil
}

// Commit writes a changed session and its cookie. Destroyed sessions are
// deleted and the cookie is cleared.
func (sm *SessionManager) Commit(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess == nil {
		return nil
	}
	if sess.destroyed {
		if err := sm.client.Del(ctx, sessionKeyPrefix+sess.ID).Err(); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		http.SetCookie(w, sm.cookie("", -1))
		return nil
	}
	if sess.state == stateClean {
		return nil
	}

	data, err := json.Marshal(storedSession{Values: sess.values, Notices: sess.notices})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	_, err = sm.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if sess.replaced != "" {
			pipe.Del(ctx, sessionKeyPrefix+sess.replaced)
		}
		pipe.Set(ctx, sessionKeyPrefix+sess.ID, data, sm.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	sess.replaced = ""
	sess.state = stateClean
	http.SetCookie(w, sm.cookie(sess.ID, int(sm.ttl/time.Second)))
	return nil
}

// Destroy marks the session for deletion on commit.
func (sm *SessionManager) Destroy(sess *Session) {
	if sess == nil {
		return
	}
	sess.destroyed = true
	sess.values = make(map[string]string)
	sess.notices = nil
}

// Renew moves the session to a new ID, keeping its values. The old record
// is removed on commit.
func (sm *SessionManager) Renew(sess *Session) {
	if sess == nil || sess.destroyed {
		return
	}
	if sess.state != stateFresh && sess.replaced == "" {
		sess.replaced = sess.ID
	}
	sess.ID = uuid.NewString()
	sess.touch()
}

func (sm *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sm.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func fresh() *Session {
	return &Session{ID: uuid.NewString(), values: make(map[string]string), state: stateFresh}
}

func (s *Session) touch() {
	if s.state == stateClean {
		s.state = stateDirty
	}
}

func (s *Session) Set(key, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	s.touch()
}

func (s *Session) Get(key string) string {
	if s == nil {
		return ""
	}
	return s.values[key]
}

func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.touch()
	}
}

// UserInfo returns the raw user payload stored at login, or nil.
func (s *Session) UserInfo() []byte {
	if raw := s.Get(UserInfoKey); raw != "" {
		return []byte(raw)
	}
	return nil
}

// SignIn stores the backend identity and token.
func (s *Session) SignIn(userInfo []byte, token string) {
	s.Set(UserInfoKey, string(userInfo))
	s.Set(BackendTokenKey, token)
}

// SignOut removes the backend identity but keeps list state and notices.
func (s *Session) SignOut() {
	s.Delete(UserInfoKey)
	s.Delete(BackendTokenKey)
}

func (s *Session) BackendToken() string { return s.Get(BackendTokenKey) }

// AddNotice queues a notice for the next response.
func (s *Session) AddNotice(n Notice) {
	s.notices = append(s.notices, n)
	s.touch()
}

// DrainNotices returns and clears every queued notice.
func (s *Session) DrainNotices() []Notice {
	if s == nil || len(s.notices) == 0 {
		return nil
	}
	out := s.notices
	s.notices = nil
	s.touch()
	return out
}

type sessionContextKey struct{}

func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}
