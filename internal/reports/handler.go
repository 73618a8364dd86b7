package reports

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stu-kho/kho-console/internal/listing"
	"github.com/stu-kho/kho-console/internal/platform/httpx"
	"github.com/stu-kho/kho-console/internal/rbac"
)

const spreadsheetType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler exposes the reports and the dashboard over HTTP.
type Handler struct {
	service *Service
	guard   *rbac.Guard
	logger  *slog.Logger
	now     func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, guard *rbac.Guard) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, guard: guard, logger: logger, now: time.Now}
}

// MountRoutes registers the report routes. Callers guard the router with the
// reports area code; each report adds its own.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.Require(rbac.ReportStock)).Get("/inventory", h.handleInventory)
	r.With(h.guard.Require(rbac.ReportHistory)).Get("/history", h.handleHistory)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(rbac.ReportNXT))
		r.Get("/nxt", h.handleNXT)
		r.Get("/nxt/export", h.handleExportNXT)
	})
}

// MountDashboard registers the dashboard route.
func (h *Handler) MountDashboard(r chi.Router) {
	r.With(h.guard.Require(rbac.DashboardView)).Get("/", h.handleDashboard)
}

type rowsView[T any] struct {
	Rows  []T `json:"rows"`
	Total int `json:"total"`
}

func respondRows[T any](w http.ResponseWriter, rows []T) {
	if rows == nil {
		rows = []T{}
	}
	httpx.JSON(w, http.StatusOK, rowsView[T]{Rows: rows, Total: len(rows)})
}

func (h *Handler) handleInventory(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Inventory(r.Context())
	if err != nil {
		h.fail(w, r, "inventory", err, "Lỗi tải tồn kho!")
		return
	}
	respondRows(w, rows)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.History(r.Context())
	if err != nil {
		h.fail(w, r, "history", err, "Lỗi tải lịch sử!")
		return
	}
	respondRows(w, rows)
}

func (h *Handler) handleNXT(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.NXT(r.Context(), h.period(r))
	if err != nil {
		h.fail(w, r, "nxt", err, "Lỗi tải báo cáo NXT!")
		return
	}
	respondRows(w, rows)
}

func (h *Handler) handleExportNXT(w http.ResponseWriter, r *http.Request) {
	p := h.period(r)
	resp, err := h.service.ExportNXT(r.Context(), p)
	if err != nil {
		h.fail(w, r, "nxt export", err, "Lỗi xuất file!")
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = spreadsheetType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=BaoCao_NXT_%s_%s.xlsx", p.From, p.To))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.WarnContext(r.Context(), "stream nxt export", slog.Any("error", err))
	}
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	p := h.period(r)
	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, _ = strconv.Atoi(raw)
	}
	if year <= 0 {
		if from, err := time.Parse(dateLayout, p.From); err == nil {
			year = from.Year()
		}
	}
	dash, err := h.service.Dashboard(r.Context(), p, year)
	if err != nil {
		h.fail(w, r, "dashboard", err, "Không thể tải tổng quan!")
		return
	}
	httpx.JSON(w, http.StatusOK, dash)
}

// period reads from/to, defaulting to the current month to date.
func (h *Handler) period(r *http.Request) Period {
	q := r.URL.Query()
	p := Period{From: q.Get("from"), To: q.Get("to")}
	if p.From == "" && p.To == "" {
		p = MonthToDate(h.now())
	}
	return p
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, report string, err error, message string) {
	if errors.Is(err, httpx.ErrValidation) {
		httpx.RespondError(w, err)
		return
	}
	h.logger.WarnContext(r.Context(), "report failed", slog.String("report", report), slog.Any("error", err))
	status := listing.StatusFor(err)
	httpx.Problem(w, status, http.StatusText(status), message)
}
