package categories

import (
	"log/slog"
	"time"

	"github.com/stu-kho/kho-console/internal/listing"
)

// Handler serves the category list.
type Handler struct {
	*listing.Handler[Category, listing.NoFilter, Input]
}

// NewHandler constructs the category handler.
func NewHandler(logger *slog.Logger, cfg listing.Config[Category, listing.NoFilter, Input], idle time.Duration) *Handler {
	return &Handler{Handler: listing.NewHandler(listing.NewRegistry(cfg, logger, idle), logger)}
}
