package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportsRefresh drops every cached report after stock changed.
	TaskReportsRefresh = "reports:refresh"
	// TaskAuditPrune removes console audit entries past retention.
	TaskAuditPrune = "audit:prune"
)

// refreshWindow collapses bursts of voucher mutations into one refresh.
const refreshWindow = 30 * time.Second

// ReportsRefreshPayload names what triggered the refresh.
type ReportsRefreshPayload struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
}

// NewReportsRefreshTask constructs a refresh task.
func NewReportsRefreshTask(payload ReportsRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsRefresh, data), nil
}

// AuditPrunePayload is the retention of the audit trail in days.
type AuditPrunePayload struct {
	RetentionDays int `json:"retentionDays"`
}

// NewAuditPruneTask constructs a prune task.
func NewAuditPruneTask(retentionDays int) (*asynq.Task, error) {
	data, err := json.Marshal(AuditPrunePayload{RetentionDays: retentionDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditPrune, data), nil
}
