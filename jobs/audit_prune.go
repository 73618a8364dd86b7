package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"

	jobmetrics "github.com/stu-kho/kho-console/internal/jobs"
	"github.com/stu-kho/kho-console/internal/platform/db"
	"github.com/stu-kho/kho-console/internal/shared"
)

// DefaultAuditRetentionDays applies when the task carries no retention.
const DefaultAuditRetentionDays = 180

// PruneFunc deletes the audit entries older than before.
type PruneFunc func(ctx context.Context, before time.Time) (int64, error)

// PruneInTx deletes old entries and records the prune itself in the same
// transaction.
func PruneInTx(pool db.Beginner) PruneFunc {
	return func(ctx context.Context, before time.Time) (int64, error) {
		var removed int64
		err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
			store := shared.NewAuditLogger(tx)
			n, err := store.Prune(ctx, before)
			if err != nil {
				return err
			}
			removed = n
			return store.Record(ctx, shared.AuditLog{
				ActorID:  "system",
				Action:   "prune",
				Entity:   "audit",
				EntityID: strconv.FormatInt(n, 10),
				Meta:     map[string]any{"before": before.Format(time.RFC3339)},
			})
		})
		return removed, err
	}
}

// AuditPruneJob enforces the audit retention.
type AuditPruneJob struct {
	Prune   PruneFunc
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewAuditPruneJob wires dependencies for the prune handler.
func NewAuditPruneJob(prune PruneFunc, logger *slog.Logger, metrics *jobmetrics.Metrics) *AuditPruneJob {
	return &AuditPruneJob{
		Prune:   prune,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes TaskAuditPrune tasks.
func (j *AuditPruneJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Prune == nil {
		return errors.New("audit prune: handler not configured")
	}
	var payload AuditPrunePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.RetentionDays <= 0 {
		payload.RetentionDays = DefaultAuditRetentionDays
	}
	metrics := j.Metrics
	if metrics == nil {
		metrics = defaultJobMetrics
	}
	tracker := metrics.Track(TaskAuditPrune)
	defer func() {
		err = tracker.End(err)
	}()

	before := j.clock().AddDate(0, 0, -payload.RetentionDays)
	removed, err := j.Prune(ctx, before)
	if err != nil {
		jobLogger(j.Logger, TaskAuditPrune).Error("prune audit", slog.Any("error", err))
		return err
	}
	metrics.AddPruned(removed)
	jobLogger(j.Logger, TaskAuditPrune).Info("audit pruned",
		slog.Int64("removed", removed), slog.Time("before", before))
	return nil
}
