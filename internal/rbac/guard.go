package rbac

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/stu-kho/kho-console/internal/platform/httpx"
)

// Errors returned to handlers that evaluate access themselves.
var (
	ErrUnauthenticated = errors.New("rbac: unauthenticated")
	ErrForbidden       = errors.New("rbac: forbidden")
)

// Outcome is the result of guarding a route.
type Outcome int

const (
	Unauthenticated Outcome = iota
	Forbidden
	Authorized
)

func (o Outcome) String() string {
	switch o {
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	default:
		return "authorized"
	}
}

// Evaluate decides the outcome for principal on a route requiring permID.
func Evaluate(p Principal, permID PermissionID) Outcome {
	if !p.Authenticated() {
		return Unauthenticated
	}
	if permID != None && !Has(p, permID) {
		return Forbidden
	}
	return Authorized
}

// Check converts Evaluate into an error.
func Check(p Principal, permID PermissionID) error {
	switch Evaluate(p, permID) {
	case Unauthenticated:
		return ErrUnauthenticated
	case Forbidden:
		return ErrForbidden
	}
	return nil
}

// Guard wraps handlers with authentication and permission checks.
type Guard struct {
	Logger    *slog.Logger
	LoginPath string
}

// RequireAuth only checks that a session identity exists.
func (g Guard) RequireAuth() func(http.Handler) http.Handler {
	return g.Require(None)
}

// Require checks authentication and, when permID is non-zero, the permission.
// A denied permission answers 403 in place and leaves the session untouched.
func (g Guard) Require(permID PermissionID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			switch Evaluate(principal, permID) {
			case Unauthenticated:
				g.unauthenticated(w, r)
			case Forbidden:
				if g.Logger != nil {
					g.Logger.InfoContext(r.Context(), "permission denied",
						slog.String("user", principal.UserID),
						slog.Int("perm", int(permID)),
						slog.String("path", r.URL.Path))
				}
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "Bạn không có quyền truy cập chức năng này.")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func (g Guard) unauthenticated(w http.ResponseWriter, r *http.Request) {
	login := g.LoginPath
	if login == "" {
		login = "/auth/login"
	}
	if wantsHTML(r) && r.Method == http.MethodGet {
		http.Redirect(w, r, login, http.StatusSeeOther)
		return
	}
	w.Header().Set("Location", login)
	httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "Vui lòng đăng nhập.")
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
