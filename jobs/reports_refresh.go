package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/stu-kho/kho-console/internal/audit"
	jobmetrics "github.com/stu-kho/kho-console/internal/jobs"
	"github.com/stu-kho/kho-console/internal/shared"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// stockEntities are the lists whose mutations move stock.
var stockEntities = map[string]bool{
	"imports":   true,
	"exports":   true,
	"transfers": true,
}

// Invalidator drops cached reports.
type Invalidator interface {
	Invalidate(ctx context.Context) (int64, error)
}

// ReportsRefreshJob invalidates the report cache.
type ReportsRefreshJob struct {
	Reports Invalidator
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewReportsRefreshJob wires dependencies for the refresh handler.
func NewReportsRefreshJob(reports Invalidator, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportsRefreshJob {
	return &ReportsRefreshJob{Reports: reports, Logger: logger, Metrics: metrics}
}

// Handle processes TaskReportsRefresh tasks.
func (j *ReportsRefreshJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Reports == nil {
		return errors.New("reports refresh: handler not configured")
	}
	var payload ReportsRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	metrics := j.Metrics
	if metrics == nil {
		metrics = defaultJobMetrics
	}
	tracker := metrics.Track(TaskReportsRefresh)
	defer func() {
		err = tracker.End(err)
	}()

	version, err := j.Reports.Invalidate(ctx)
	if err != nil {
		jobLogger(j.Logger, TaskReportsRefresh).Error("invalidate reports", slog.Any("error", err))
		return err
	}
	jobLogger(j.Logger, TaskReportsRefresh).Info("reports invalidated",
		slog.String("entity", payload.Entity), slog.String("action", payload.Action), slog.Int64("version", version))
	return nil
}

// ReportsHook enqueues a refresh for every recorded voucher mutation.
func (c *Client) ReportsHook(logger *slog.Logger) audit.Hook {
	return func(ctx context.Context, entry shared.AuditLog) {
		if !stockEntities[entry.Entity] {
			return
		}
		if _, err := c.EnqueueReportsRefresh(ctx, ReportsRefreshPayload{Entity: entry.Entity, Action: entry.Action}); err != nil {
			jobLogger(logger, TaskReportsRefresh).WarnContext(ctx, "enqueue reports refresh", slog.Any("error", err))
		}
	}
}

func jobLogger(logger *slog.Logger, job string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("job", job))
}
