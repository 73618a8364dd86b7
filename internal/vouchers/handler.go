package vouchers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stu-kho/kho-console/internal/backend"
	"github.com/stu-kho/kho-console/internal/listing"
	"github.com/stu-kho/kho-console/internal/platform/httpx"
	"github.com/stu-kho/kho-console/internal/shared"
)

// Kind describes the routes of one voucher kind.
type Kind struct {
	// PrintPrefix names downloaded prints: <PrintPrefix>_<id>.pdf.
	PrintPrefix string
	Partner     Partner
}

// Handler serves one voucher list with its workflow routes.
type Handler[T Record, I any] struct {
	*listing.Handler[T, Filter, I]
	kind    Kind
	res     *backend.Resource[T]
	policy  Policy
	lookups *LookupLoader
	logger  *slog.Logger
}

// NewHandler constructs a voucher handler.
func NewHandler[T Record, I any](logger *slog.Logger, cfg listing.Config[T, Filter, I], res *backend.Resource[T], pol Policy, lookups *LookupLoader, kind Kind, idle time.Duration) *Handler[T, I] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler[T, I]{
		Handler: listing.NewHandler(listing.NewRegistry(cfg, logger, idle), logger),
		kind:    kind,
		res:     res,
		policy:  pol,
		lookups: lookups,
		logger:  logger,
	}
}

// MountRoutes registers the list routes plus approve, cancel, print and the
// form lookups.
func (h *Handler[T, I]) MountRoutes(r chi.Router) {
	h.Handler.MountRoutes(r)
	r.Get("/lookups", h.handleLookups)
	r.Post("/{id}/approve", h.handleApprove)
	r.Post("/{id}/cancel", h.handleCancel)
	r.Get("/{id}/print", h.handlePrint)
}

func (h *Handler[T, I]) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, listing.Step{
		Action:  string(listing.ActionApprove),
		Perm:    h.policy.Perms.Approve,
		Call:    h.res.Approve,
		Message: "Đã duyệt!",
	})
}

func (h *Handler[T, I]) handleCancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, listing.Step{
		Action:  string(listing.ActionCancel),
		Perm:    h.policy.Perms.Cancel,
		Call:    h.res.Cancel,
		Message: "Đã hủy!",
	})
}

func (h *Handler[T, I]) transition(w http.ResponseWriter, r *http.Request, step listing.Step) {
	ctrl := h.Controller(r)
	id, err := listing.ParseID(r)
	if err != nil {
		h.Respond(w, r, ctrl, ctrl.Reject(r.Context(), err))
		return
	}
	step.Check = func(ctx context.Context, id int64) error {
		rec, ok := ctrl.Lookup(id)
		if !ok {
			var err error
			if rec, err = h.res.Get(ctx, id); err != nil {
				return err
			}
		}
		return h.policy.CanTransition(rec, listing.Action(step.Action))
	}
	h.Respond(w, r, ctrl, ctrl.Transition(r.Context(), id, step))
}

func (h *Handler[T, I]) handlePrint(w http.ResponseWriter, r *http.Request) {
	ctrl := h.Controller(r)
	id, err := listing.ParseID(r)
	if err != nil {
		h.Respond(w, r, ctrl, ctrl.Reject(r.Context(), err))
		return
	}
	resp, err := h.res.Print(r.Context(), id)
	if err != nil {
		h.logger.WarnContext(r.Context(), "print voucher", slog.Int64("id", id), slog.Any("error", err))
		if sess := shared.SessionFromContext(r.Context()); sess != nil {
			sess.AddNotice(shared.Notice{Kind: shared.NoticeError, Message: "Lỗi khi in phiếu!"})
		}
		h.Respond(w, r, ctrl, err)
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_%d.pdf", h.kind.PrintPrefix, id))
	if length := resp.Header.Get("Content-Length"); length != "" {
		w.Header().Set("Content-Length", length)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.WarnContext(r.Context(), "stream voucher print", slog.Int64("id", id), slog.Any("error", err))
	}
}

func (h *Handler[T, I]) handleLookups(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.lookups.Load(r.Context(), h.kind.Partner))
}
