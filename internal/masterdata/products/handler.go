package products

import (
	"log/slog"
	"time"

	"github.com/stu-kho/kho-console/internal/listing"
)

// Handler serves the product catalog.
type Handler struct {
	*listing.Handler[Product, Filter, Input]
}

// NewHandler constructs the product handler.
func NewHandler(logger *slog.Logger, cfg listing.Config[Product, Filter, Input], idle time.Duration) *Handler {
	return &Handler{Handler: listing.NewHandler(listing.NewRegistry(cfg, logger, idle), logger)}
}
