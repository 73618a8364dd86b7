package customers

import (
	"log/slog"
	"time"

	"github.com/stu-kho/kho-console/internal/listing"
	md "github.com/stu-kho/kho-console/internal/masterdata/shared"
)

// Handler serves the customer list.
type Handler struct {
	*listing.Handler[Customer, md.KeywordFilter, Input]
}

// NewHandler constructs the customer handler.
func NewHandler(logger *slog.Logger, cfg listing.Config[Customer, md.KeywordFilter, Input], idle time.Duration) *Handler {
	return &Handler{Handler: listing.NewHandler(listing.NewRegistry(cfg, logger, idle), logger)}
}
