package rbac

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/stu-kho/kho-console/internal/shared"
)

// TokenCheck rejects backend tokens that can no longer be used.
type TokenCheck func(token string) error

// Provider decodes the session identity once per request and keeps it in the
// request context. Login and logout call Refresh after touching the session.
type Provider struct {
	logger     *slog.Logger
	tokenCheck TokenCheck
}

// NewProvider constructs a Provider. tokenCheck may be nil.
func NewProvider(logger *slog.Logger, tokenCheck TokenCheck) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{logger: logger, tokenCheck: tokenCheck}
}

type principalKey struct{}

type principalHolder struct {
	mu        sync.RWMutex
	principal Principal
}

// Middleware resolves the principal for every request.
func (p *Provider) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		holder := &principalHolder{principal: p.resolve(r.Context(), shared.SessionFromContext(r.Context()))}
		ctx := context.WithValue(r.Context(), principalKey{}, holder)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Refresh re-reads the session of ctx and replaces the cached principal.
func (p *Provider) Refresh(ctx context.Context) Principal {
	principal := p.resolve(ctx, shared.SessionFromContext(ctx))
	if holder, ok := ctx.Value(principalKey{}).(*principalHolder); ok {
		holder.mu.Lock()
		holder.principal = principal
		holder.mu.Unlock()
	}
	return principal
}

// PrincipalFromContext returns the principal resolved for the request.
func PrincipalFromContext(ctx context.Context) Principal {
	holder, ok := ctx.Value(principalKey{}).(*principalHolder)
	if !ok {
		return Anonymous
	}
	holder.mu.RLock()
	defer holder.mu.RUnlock()
	return holder.principal
}

// WithPrincipal stores principal in ctx, for callers outside the HTTP stack.
func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, &principalHolder{principal: principal})
}

func (p *Provider) resolve(ctx context.Context, sess *shared.Session) Principal {
	raw := sess.UserInfo()
	if raw == nil {
		return Anonymous
	}
	if p.tokenCheck != nil {
		if err := p.tokenCheck(sess.BackendToken()); err != nil {
			p.logger.InfoContext(ctx, "session token rejected", slog.Any("error", err))
			return Anonymous
		}
	}
	principal, err := Decode(raw)
	if err != nil {
		p.logger.WarnContext(ctx, "malformed session payload", slog.Any("error", err))
		return Anonymous
	}
	if principal.NestedShape() {
		p.logger.DebugContext(ctx, "nested quyen session payload", slog.String("user", principal.UserID))
	}
	return principal
}
