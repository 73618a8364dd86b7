package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	audithttp "github.com/stu-kho/kho-console/internal/audit/http"
	"github.com/stu-kho/kho-console/internal/auth"
	"github.com/stu-kho/kho-console/internal/masterdata"
	"github.com/stu-kho/kho-console/internal/observability"
	"github.com/stu-kho/kho-console/internal/platform/httpx"
	"github.com/stu-kho/kho-console/internal/rbac"
	"github.com/stu-kho/kho-console/internal/reports"
	"github.com/stu-kho/kho-console/internal/shared"
	"github.com/stu-kho/kho-console/internal/users"
	"github.com/stu-kho/kho-console/internal/vouchers"
	"github.com/stu-kho/kho-console/jobs"
)

// Pinger reports whether a dependency answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Provider       *rbac.Provider
	Guard          *rbac.Guard
	Backend        Pinger

	AuthHandler       *auth.Handler
	MasterDataHandler *masterdata.Handler
	VoucherModule     *vouchers.Module
	ReportsHandler    *reports.Handler
	UsersHandler      *users.Handler
	AuditHandler      *audithttp.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router of the console.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()
	guard := params.Guard
	if guard == nil {
		guard = &rbac.Guard{Logger: params.Logger}
	}

	// Probes and metrics stay outside the session stack.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok", "backend": "ok"}
		if params.Backend != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			defer cancel()
			if err := params.Backend.Ping(ctx); err != nil {
				status["backend"] = "unreachable"
			}
		}
		httpx.JSON(w, http.StatusOK, status)
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		for _, mw := range MiddlewareStack(MiddlewareConfig{
			Logger:         params.Logger,
			Config:         params.Config,
			SessionManager: params.SessionManager,
			CSRFManager:    params.CSRFManager,
			Provider:       params.Provider,
			Metrics:        params.Metrics,
		}) {
			r.Use(mw)
		}

		if params.AuthHandler != nil {
			r.Route("/auth", params.AuthHandler.MountRoutes)
			r.Group(func(r chi.Router) {
				r.Use(guard.RequireAuth())
				params.AuthHandler.MountAccount(r)
			})
		}
		if params.MasterDataHandler != nil {
			r.Route("/masterdata", params.MasterDataHandler.MountRoutes)
		}
		if params.VoucherModule != nil {
			r.Route("/vouchers", params.VoucherModule.MountRoutes)
		}
		if params.ReportsHandler != nil {
			r.Route("/reports", func(r chi.Router) {
				r.Use(guard.Require(rbac.ReportsView))
				params.ReportsHandler.MountRoutes(r)
			})
			r.Route("/dashboard", params.ReportsHandler.MountDashboard)
		}
		if params.UsersHandler != nil {
			r.Route("/users", params.UsersHandler.MountRoutes)
		}
		if params.AuditHandler != nil {
			r.Route("/system-log", func(r chi.Router) {
				r.Use(guard.Require(rbac.SystemLogView))
				params.AuditHandler.MountRoutes(r)
			})
		}
		if params.JobHandler != nil {
			r.Route("/jobs", func(r chi.Router) {
				r.Use(guard.Require(rbac.SystemLogView))
				params.JobHandler.MountRoutes(r)
			})
		}
	})
	return r
}
