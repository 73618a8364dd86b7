package warehouses

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stu-kho/kho-console/internal/listing"
	md "github.com/stu-kho/kho-console/internal/masterdata/shared"
	"github.com/stu-kho/kho-console/internal/platform/httpx"
	"github.com/stu-kho/kho-console/internal/shared"
)

// StockReader reads the lots of a warehouse.
type StockReader interface {
	Stock(ctx context.Context, id int64) (Stock, error)
}

// Handler serves the warehouse list and the per-warehouse stock view.
type Handler struct {
	*listing.Handler[Warehouse, md.KeywordFilter, Input]
	stock  StockReader
	logger *slog.Logger
}

// NewHandler constructs the warehouse handler.
func NewHandler(logger *slog.Logger, cfg listing.Config[Warehouse, md.KeywordFilter, Input], stock StockReader, idle time.Duration) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Handler: listing.NewHandler(listing.NewRegistry(cfg, logger, idle), logger),
		stock:   stock,
		logger:  logger,
	}
}

// MountRoutes registers the list routes and GET /{id}/stock.
func (h *Handler) MountRoutes(r chi.Router) {
	h.Handler.MountRoutes(r)
	r.Get("/{id}/stock", h.handleStock)
}

type stockView struct {
	Warehouse Warehouse  `json:"warehouse"`
	Lots      []StockLot `json:"lots"`
}

func (h *Handler) handleStock(w http.ResponseWriter, r *http.Request) {
	id, err := listing.ParseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	ctrl := h.Controller(r)
	wh, ok := ctrl.Lookup(id)
	if !ok {
		if wh, err = ctrl.Detail(r.Context(), id); err != nil {
			h.Respond(w, r, ctrl, err)
			return
		}
	}
	lots, err := h.stock.Stock(r.Context(), id)
	if err != nil {
		h.logger.WarnContext(r.Context(), "load warehouse stock", slog.Int64("warehouse", id), slog.Any("error", err))
		if sess := shared.SessionFromContext(r.Context()); sess != nil {
			sess.AddNotice(shared.Notice{Kind: shared.NoticeError, Message: "Không thể tải tồn kho!"})
		}
		h.Respond(w, r, ctrl, err)
		return
	}
	if lots == nil {
		lots = Stock{}
	}
	httpx.JSON(w, http.StatusOK, stockView{Warehouse: wh, Lots: lots})
}
