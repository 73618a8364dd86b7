package audithttp

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/stu-kho/kho-console/internal/audit"
	"github.com/stu-kho/kho-console/internal/listing"
	"github.com/stu-kho/kho-console/internal/platform/httpx"
)

const (
	dateLayout        = "2006-01-02"
	maxDateRangeHours = 24 * 366
)

// TimelineService defines the business contract for system log data.
type TimelineService interface {
	Timeline(ctx context.Context, filters audit.TimelineFilters) (audit.Result, error)
	Export(ctx context.Context, filters audit.TimelineFilters) ([]audit.TimelineRow, error)
}

// Handler serves the system log.
type Handler struct {
	logger  *slog.Logger
	service TimelineService
	now     func() time.Time
}

// NewHandler builds a system log handler.
func NewHandler(logger *slog.Logger, service TimelineService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, now: time.Now}
}

func (h *Handler) handleTimeline(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	result, err := h.service.Timeline(r.Context(), filters)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "system log timeline", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "Không thể tải nhật ký hệ thống!")
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.Export(r.Context(), filters)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "system log export", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "Lỗi xuất file!")
		return
	}
	data, err := audit.WriteCSV(rows)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "system log csv", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "Lỗi xuất file!")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=nhat_ky_"+h.now().Format("20060102")+".csv")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// parseFilters reads page, size, actor, entity, action and an optional
// from/to day range; to is inclusive.
func (h *Handler) parseFilters(r *http.Request) (audit.TimelineFilters, error) {
	q := r.URL.Query()
	filters := audit.TimelineFilters{
		Actor:  strings.TrimSpace(q.Get("actor")),
		Entity: strings.TrimSpace(q.Get("entity")),
		Action: strings.TrimSpace(q.Get("action")),
	}
	filters.Page, _ = strconv.Atoi(q.Get("page"))
	filters.PageSize, _ = strconv.Atoi(q.Get("size"))

	if raw := q.Get("from"); raw != "" {
		from, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return filters, listing.Invalid("from", "Ngày bắt đầu không hợp lệ")
		}
		filters.From = from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return filters, listing.Invalid("to", "Ngày kết thúc không hợp lệ")
		}
		filters.To = to.AddDate(0, 0, 1)
	}
	if !filters.From.IsZero() && !filters.To.IsZero() {
		if !filters.From.Before(filters.To) {
			return filters, listing.Invalid("from", "Ngày bắt đầu phải trước ngày kết thúc")
		}
		if filters.To.Sub(filters.From) > maxDateRangeHours*time.Hour {
			return filters, listing.Invalid("to", "Khoảng thời gian tối đa 1 năm")
		}
	}
	return filters, nil
}
