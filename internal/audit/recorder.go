package audit

import (
	"context"
	"log/slog"

	"github.com/stu-kho/kho-console/internal/shared"
)

// Hook observes every recorded entry.
type Hook func(ctx context.Context, entry shared.AuditLog)

// Recorder persists list mutations to the audit trail and notifies hooks.
// A nil store only runs the hooks.
type Recorder struct {
	store  *shared.AuditLogger
	logger *slog.Logger
	hooks  []Hook
}

// NewRecorder constructs a Recorder.
func NewRecorder(store *shared.AuditLogger, logger *slog.Logger, hooks ...Hook) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, logger: logger, hooks: hooks}
}

// Record implements listing.Auditor.
func (r *Recorder) Record(ctx context.Context, entry shared.AuditLog) error {
	for _, hook := range r.hooks {
		hook(ctx, entry)
	}
	if r.store == nil {
		r.logger.DebugContext(ctx, "audit store disabled", slog.String("entity", entry.Entity), slog.String("action", entry.Action))
		return nil
	}
	return r.store.Record(ctx, entry)
}
