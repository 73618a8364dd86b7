package suppliers

import (
	"log/slog"
	"time"

	"github.com/stu-kho/kho-console/internal/listing"
	md "github.com/stu-kho/kho-console/internal/masterdata/shared"
)

// Handler serves the supplier list.
type Handler struct {
	*listing.Handler[Supplier, md.KeywordFilter, Input]
}

// NewHandler constructs the supplier handler.
func NewHandler(logger *slog.Logger, cfg listing.Config[Supplier, md.KeywordFilter, Input], idle time.Duration) *Handler {
	return &Handler{Handler: listing.NewHandler(listing.NewRegistry(cfg, logger, idle), logger)}
}
