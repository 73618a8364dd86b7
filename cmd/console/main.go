package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stu-kho/kho-console/internal/app"
	"github.com/stu-kho/kho-console/internal/audit"
	audithttp "github.com/stu-kho/kho-console/internal/audit/http"
	"github.com/stu-kho/kho-console/internal/auth"
	"github.com/stu-kho/kho-console/internal/backend"
	"github.com/stu-kho/kho-console/internal/masterdata"
	"github.com/stu-kho/kho-console/internal/observability"
	"github.com/stu-kho/kho-console/internal/platform/cache"
	"github.com/stu-kho/kho-console/internal/platform/db"
	"github.com/stu-kho/kho-console/internal/rbac"
	"github.com/stu-kho/kho-console/internal/reports"
	"github.com/stu-kho/kho-console/internal/shared"
	"github.com/stu-kho/kho-console/internal/users"
	"github.com/stu-kho/kho-console/internal/vouchers"
	"github.com/stu-kho/kho-console/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
	slog.SetDefault(logger)

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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

	auditLogger := shared.NewAuditLogger(dbpool)
	if err := auditLogger.EnsureSchema(ctx); err != nil {
		logger.Error("audit schema", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, logger)
	client.SetObserver(metrics)

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	redisOpts := asynq.RedisClientOpt{Addr: redisClient.Options().Addr, Password: redisClient.Options().Password, DB: redisClient.Options().DB}
	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	recorder := audit.NewRecorder(auditLogger, logger, jobClient.ReportsHook(logger))

	authService := auth.NewService(auth.NewRepository(client))
	provider := rbac.NewProvider(logger, authService.CheckToken)
	guard := &rbac.Guard{Logger: logger, LoginPath: "/auth/login"}

	masterdataHandler := masterdata.NewHandler(logger, client, recorder, guard, masterdata.Options{
		PageSize: cfg.DefaultPageSize,
		Idle:     cfg.ListIdleTimeout,
	})
	voucherModule := vouchers.NewModule(logger, client, recorder, guard, vouchers.Options{
		PageSize:   cfg.DefaultPageSize,
		EditWindow: cfg.VoucherEditWindow,
		Idle:       cfg.ListIdleTimeout,
	})
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager, provider, masterdataHandler, voucherModule)

	reportService := reports.NewService(reports.NewRepository(client), reports.NewCache(redisClient, cfg.ReportCacheTTL), logger)
	reportsHandler := reports.NewHandler(logger, reportService, guard)
	usersHandler := users.NewHandler(logger, users.NewService(users.NewRepository(client)), guard)
	auditHandler := audithttp.NewHandler(logger, audit.NewService(auditLogger))

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		CSRFManager:       csrfManager,
		Provider:          provider,
		Guard:             guard,
		Backend:           client,
		AuthHandler:       authHandler,
		MasterDataHandler: masterdataHandler,
		VoucherModule:     voucherModule,
		ReportsHandler:    reportsHandler,
		UsersHandler:      usersHandler,
		AuditHandler:      auditHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("backend", cfg.BackendURL))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
