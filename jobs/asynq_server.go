package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Worker runs task handlers on the default queue and, once a schedule is
// registered, the cron scheduler next to them.
type Worker struct {
	redis     asynq.RedisConnOpt
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	logger    *slog.Logger
}

type WorkerConfig struct {
	Redis       asynq.RedisConnOpt
	Logger      *slog.Logger
	Concurrency int
}

func NewWorker(cfg WorkerConfig) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 2
	}
	w := &Worker{redis: cfg.Redis, mux: asynq.NewServeMux(), logger: logger}
	w.server = asynq.NewServer(cfg.Redis, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueDefault: 1},
		Logger:      newAsynqLogger(logger),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			logger.ErrorContext(ctx, "task failed",
				slog.String("type", task.Type()),
				slog.Int("retried", retried),
				slog.Any("error", err))
		}),
	})
	w.mux.Use(w.trace)
	return w
}

// Handle routes tasks of taskType to h.
func (w *Worker) Handle(taskType string, h asynq.HandlerFunc) {
	w.mux.HandleFunc(taskType, h)
}

// Schedule enqueues task on the cron spec. An empty spec disables it.
func (w *Worker) Schedule(spec string, task *asynq.Task, opts ...asynq.Option) error {
	if spec == "" {
		return nil
	}
	if w.scheduler == nil {
		w.scheduler = asynq.NewScheduler(w.redis, &asynq.SchedulerOpts{
			Location: time.Local,
			Logger:   newAsynqLogger(w.logger),
		})
	}
	id, err := w.scheduler.Register(spec, task, opts...)
	if err != nil {
		return fmt.Errorf("schedule %s %q: %w", task.Type(), spec, err)
	}
	w.logger.Info("task scheduled", slog.String("type", task.Type()), slog.String("cron", spec), slog.String("entry", id))
	return nil
}

// Run processes tasks until ctx is done, then drains in-flight work.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	defer w.server.Shutdown()
	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer w.scheduler.Shutdown()
	}
	<-ctx.Done()
	return ctx.Err()
}

func (w *Worker) trace(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
		id, _ := asynq.GetTaskID(ctx)
		start := time.Now()
		err := next.ProcessTask(ctx, task)
		w.logger.DebugContext(ctx, "task processed",
			slog.String("type", task.Type()),
			slog.String("id", id),
			slog.Duration("elapsed", time.Since(start)),
			slog.Bool("ok", err == nil))
		return err
	})
}

// asynqLogger routes asynq's internal logging through slog.
type asynqLogger struct{ l *slog.Logger }

func newAsynqLogger(l *slog.Logger) asynqLogger { return asynqLogger{l: l.With(slog.String("component", "asynq"))} }

func (a asynqLogger) Debug(args ...any) { a.l.Debug(fmt.Sprint(args...)) }
func (a asynqLogger) Info(args ...any)  { a.l.Info(fmt.Sprint(args...)) }
func (a asynqLogger) Warn(args ...any)  { a.l.Warn(fmt.Sprint(args...)) }
func (a asynqLogger) Error(args ...any) { a.l.Error(fmt.Sprint(args...)) }
func (a asynqLogger) Fatal(args ...any) { a.l.Error(fmt.Sprint(args...)) }
