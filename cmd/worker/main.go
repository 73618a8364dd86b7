package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/stu-kho/kho-console/internal/app"
	jobmetrics "github.com/stu-kho/kho-console/internal/jobs"
	"github.com/stu-kho/kho-console/internal/platform/cache"
	"github.com/stu-kho/kho-console/internal/platform/db"
	"github.com/stu-kho/kho-console/internal/reports"
	"github.com/stu-kho/kho-console/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	// The worker never reads reports, so it only needs the cache to bump
	// its version.
	reportService := reports.NewService(nil, reports.NewCache(redisClient, cfg.ReportCacheTTL), logger)
	metrics := jobmetrics.NewMetrics(nil)

	refreshJob := jobs.NewReportsRefreshJob(reportService, logger, metrics)
	pruneJob := jobs.NewAuditPruneJob(jobs.PruneInTx(pool), logger, metrics)

	pruneTask, err := jobs.NewAuditPruneTask(cfg.AuditRetentionDays)
	if err != nil {
		logger.Error("build prune task", slog.Any("error", err))
		os.Exit(1)
	}

	opts := redisClient.Options()
	worker := jobs.NewWorker(jobs.WorkerConfig{
		Redis:       asynq.RedisClientOpt{Addr: opts.Addr, Password: opts.Password, DB: opts.DB},
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
	})
	worker.Handle(jobs.TaskReportsRefresh, refreshJob.Handle)
	worker.Handle(jobs.TaskAuditPrune, pruneJob.Handle)
	if err := worker.Schedule(cfg.AuditPruneCron, pruneTask, asynq.MaxRetry(3)); err != nil {
		logger.Error("schedule audit prune", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
