package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/stu-kho/kho-console/internal/jobs"
	"github.com/stu-kho/kho-console/internal/shared"
)

type fakeInvalidator struct {
	calls int
	err   error
}

func (f *fakeInvalidator) Invalidate(context.Context) (int64, error) {
	f.calls++
	return int64(f.calls + 1), f.err
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{Type: task.Type(), Queue: QueueDefault}, nil
}

func (f *fakeEnqueuer) Close() error { return nil }

func testMetrics() *jobmetrics.Metrics {
	return jobmetrics.NewMetrics(prometheus.NewRegistry())
}

func TestReportsRefreshInvalidates(t *testing.T) {
	inv := &fakeInvalidator{}
	job := NewReportsRefreshJob(inv, nil, testMetrics())
	task, err := NewReportsRefreshTask(ReportsRefreshPayload{Entity: "exports", Action: "approve"})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 1, inv.calls)
}

func TestReportsRefreshPropagatesFailure(t *testing.T) {
	boom := errors.New("redis down")
	job := NewReportsRefreshJob(&fakeInvalidator{err: boom}, nil, testMetrics())
	task, err := NewReportsRefreshTask(ReportsRefreshPayload{Entity: "imports"})
	require.NoError(t, err)

	require.ErrorIs(t, job.Handle(context.Background(), task), boom)
}

func TestReportsRefreshSkipsBadPayload(t *testing.T) {
	job := NewReportsRefreshJob(&fakeInvalidator{}, nil, testMetrics())
	err := job.Handle(context.Background(), asynq.NewTask(TaskReportsRefresh, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestReportsHookOnlyForStockLists(t *testing.T) {
	enq := &fakeEnqueuer{}
	hook := NewClientWith(enq).ReportsHook(nil)

	hook(context.Background(), shared.AuditLog{Entity: "categories", Action: "create"})
	hook(context.Background(), shared.AuditLog{Entity: "transfers", Action: "approve"})

	require.Len(t, enq.tasks, 1)
	require.Equal(t, TaskReportsRefresh, enq.tasks[0].Type())
	var payload ReportsRefreshPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &payload))
	require.Equal(t, ReportsRefreshPayload{Entity: "transfers", Action: "approve"}, payload)
}

func TestEnqueueIgnoresDuplicate(t *testing.T) {
	client := NewClientWith(&fakeEnqueuer{err: asynq.ErrDuplicateTask})
	info, err := client.EnqueueReportsRefresh(context.Background(), ReportsRefreshPayload{Entity: "exports"})
	require.NoError(t, err)
	require.Nil(t, info)

	var disabled *Client
	_, err = disabled.EnqueueReportsRefresh(context.Background(), ReportsRefreshPayload{})
	require.NoError(t, err)
}

func TestAuditPruneUsesRetention(t *testing.T) {
	var gotBefore time.Time
	job := NewAuditPruneJob(func(_ context.Context, before time.Time) (int64, error) {
		gotBefore = before
		return 4, nil
	}, nil, testMetrics())
	job.clock = func() time.Time { return time.Date(2025, 6, 30, 2, 0, 0, 0, time.UTC) }

	task, err := NewAuditPruneTask(30)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, time.Date(2025, 5, 31, 2, 0, 0, 0, time.UTC), gotBefore)

	task, err = NewAuditPruneTask(0)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, time.Date(2025, 1, 1, 2, 0, 0, 0, time.UTC), gotBefore)
}

func TestAuditPruneNotConfigured(t *testing.T) {
	task, err := NewAuditPruneTask(1)
	require.NoError(t, err)
	require.Error(t, (&AuditPruneJob{}).Handle(context.Background(), task))
}

type fakeInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (f fakeInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) { return f.info, f.err }

func TestHealthReportsQueue(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(fakeInspector{info: &asynq.QueueInfo{Queue: QueueDefault, Pending: 3, Retry: 1}}, nil).MountRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"queue":"default","pending":3,"active":0,"retry":1,"scheduled":0}`, rr.Body.String())

	r = chi.NewRouter()
	NewHandler(fakeInspector{err: errors.New("no redis")}, nil).MountRoutes(r)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
