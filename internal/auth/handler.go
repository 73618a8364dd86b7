package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stu-kho/kho-console/internal/listing"
	"github.com/stu-kho/kho-console/internal/platform/httpx"
	"github.com/stu-kho/kho-console/internal/rbac"
	"github.com/stu-kho/kho-console/internal/shared"
)

var loginMessages = map[string]string{
	"tenDangNhap.required": "Vui lòng nhập tên đăng nhập!",
	"tenDangNhap.max":      "Tên đăng nhập tối đa 50 ký tự",
	"matKhau.required":     "Vui lòng nhập mật khẩu!",
	"matKhau.max":          "Mật khẩu tối đa 100 ký tự",
}

// Forgetter drops per-session state kept outside the session store.
type Forgetter interface {
	Forget(sessionID string)
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	provider       *rbac.Provider
	validator      *validator.Validate
	forget         []Forgetter
}

// NewHandler constructs a Handler instance. forget is told about every
// session that logs out.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, csrf *shared.CSRFManager, provider *rbac.Provider, forget ...Forgetter) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		service:        service,
		sessionManager: sessions,
		csrfManager:    csrf,
		provider:       provider,
		validator:      listing.NewValidator(),
		forget:         forget,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

// MountAccount registers the profile and menu routes. Callers require an
// authenticated session.
func (h *Handler) MountAccount(r chi.Router) {
	r.Get("/me", h.handleProfile)
	r.Get("/nav", h.handleNav)
}

type loginState struct {
	CSRFToken     string          `json:"csrfToken"`
	Authenticated bool            `json:"authenticated"`
	Notices       []shared.Notice `json:"notices"`
}

// Profile is the identity of the signed-in user.
type Profile struct {
	UserID      string              `json:"userId"`
	FullName    string              `json:"fullName"`
	Role        string              `json:"role"`
	Admin       bool                `json:"admin"`
	Permissions []rbac.PermissionID `json:"permissions"`
}

type loginResult struct {
	Profile   Profile         `json:"profile"`
	Menu      []rbac.NavItem  `json:"menu"`
	CSRFToken string          `json:"csrfToken"`
	Notices   []shared.Notice `json:"notices"`
}

func profileOf(p rbac.Principal) Profile {
	return Profile{
		UserID:      p.UserID,
		FullName:    p.FullName,
		Role:        p.Role,
		Admin:       rbac.IsAdmin(p),
		Permissions: p.Permissions(),
	}
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	token, err := h.csrfManager.EnsureToken(sess)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "issue csrf token", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "Không thể khởi tạo phiên đăng nhập.")
		return
	}
	notices := sess.DrainNotices()
	if notices == nil {
		notices = []shared.Notice{}
	}
	httpx.JSON(w, http.StatusOK, loginState{
		CSRFToken:     token,
		Authenticated: rbac.PrincipalFromContext(r.Context()).Authenticated(),
		Notices:       notices,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := shared.SessionFromContext(ctx)
	if sess == nil {
		h.logger.ErrorContext(ctx, "session missing during login")
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "Không thể khởi tạo phiên đăng nhập.")
		return
	}

	var creds Credentials
	if err := httpx.DecodeJSON(r, &creds); err != nil {
		httpx.RespondError(w, listing.Invalid("", "Dữ liệu gửi lên không hợp lệ"))
		return
	}
	if err := listing.Struct(h.validator, creds, loginMessages); err != nil {
		httpx.RespondError(w, err)
		return
	}

	login, err := h.service.Authenticate(ctx, creds)
	if err != nil {
		if IsCredentialError(err) || errors.Is(err, ErrTokenExpired) {
			h.logger.InfoContext(ctx, "login refused", slog.String("user", creds.Username), slog.Any("error", err))
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "Sai tên đăng nhập hoặc mật khẩu!")
			return
		}
		h.logger.WarnContext(ctx, "login failed", slog.Any("error", err))
		httpx.Problem(w, listing.StatusFor(err), "Backend Error", shared.UserSafeMessage(err))
		return
	}

	sess.SignIn(login.UserInfo, login.Token)
	principal := h.provider.Refresh(ctx)
	if !principal.Authenticated() {
		sess.SignOut()
		h.provider.Refresh(ctx)
		h.logger.WarnContext(ctx, "login payload unusable", slog.String("user", creds.Username))
		httpx.Problem(w, http.StatusBadGateway, "Backend Error", "Không đọc được thông tin người dùng.")
		return
	}
	if principal.NestedShape() {
		h.logger.DebugContext(ctx, "nested user payload at login", slog.String("user", principal.UserID))
	}
	h.logger.InfoContext(ctx, "login", slog.String("user", principal.UserID), slog.String("role", principal.Role))

	h.sessionManager.Renew(sess)
	token, err := h.csrfManager.Rotate(sess)
	if err != nil {
		h.logger.ErrorContext(ctx, "rotate csrf token", slog.Any("error", err))
	}
	sess.AddNotice(shared.Notice{Kind: shared.NoticeSuccess, Message: "Đăng nhập thành công!"})
	httpx.JSON(w, http.StatusOK, loginResult{
		Profile:   profileOf(principal),
		Menu:      rbac.Menu(principal),
		CSRFToken: token,
		Notices:   sess.DrainNotices(),
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := shared.SessionFromContext(ctx)
	if sess != nil {
		for _, f := range h.forget {
			f.Forget(sess.ID)
		}
		h.sessionManager.Destroy(sess)
	}
	h.provider.Refresh(ctx)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, profileOf(rbac.PrincipalFromContext(r.Context())))
}

func (h *Handler) handleNav(w http.ResponseWriter, r *http.Request) {
	menu := rbac.Menu(rbac.PrincipalFromContext(r.Context()))
	if menu == nil {
		menu = []rbac.NavItem{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": menu})
}
