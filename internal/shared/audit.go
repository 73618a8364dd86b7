package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// AuditLog is one mutating action performed through the console.
type AuditLog struct {
	ID        int64          `json:"id"`
	ActorID   string         `json:"actorId"`
	ActorName string         `json:"actorName"`
	Action    string         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entityId"`
	Meta      map[string]any `json:"meta,omitempty"`
	At        time.Time      `json:"at"`
}

// AuditDB is the subset of pgxpool.Pool used by AuditLogger.
type AuditDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// AuditLogger writes records into console_audit_logs.
type AuditLogger struct {
	db AuditDB
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(db AuditDB) *AuditLogger {
	return &AuditLogger{db: db}
}

// Record persists the log entry.
func (l *AuditLogger) Record(ctx context.Context, log AuditLog) error {
	if l == nil || l.db == nil {
		return errors.New("audit logger not initialised")
	}
	if log.Action == "" || log.Entity == "" {
		return errors.New("audit log requires action/entity")
	}
	metaJSON, err := json.Marshal(log.Meta)
	if err != nil {
		return err
	}
	var at *time.Time
	if !log.At.IsZero() {
		at = &log.At
	}
	_, err = l.db.Exec(ctx, `INSERT INTO console_audit_logs (actor_id, actor_name, action, entity, entity_id, meta, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))`, log.ActorID, log.ActorName, log.Action, log.Entity, log.EntityID, metaJSON, at)
	return err
}

// AuditQuery selects audit entries. Zero values are not filtered on.
type AuditQuery struct {
	From   time.Time
	To     time.Time
	Actor  string
	Entity string
	Action string
	Limit  int
	Offset int
}

// schema creates the audit table on first start.
const schema = `CREATE TABLE IF NOT EXISTS console_audit_logs (
	id          BIGSERIAL PRIMARY KEY,
	actor_id    TEXT NOT NULL DEFAULT '',
	actor_name  TEXT NOT NULL DEFAULT '',
	action      TEXT NOT NULL,
	entity      TEXT NOT NULL,
	entity_id   TEXT NOT NULL DEFAULT '',
	meta        JSONB,
	occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS console_audit_logs_occurred_at_idx ON console_audit_logs (occurred_at DESC, id DESC)`

// EnsureSchema creates the audit table when it does not exist.
func (l *AuditLogger) EnsureSchema(ctx context.Context) error {
	if l == nil || l.db == nil {
		return errors.New("audit logger not initialised")
	}
	_, err := l.db.Exec(ctx, schema)
	return err
}

// Timeline returns the entries matching q, newest first.
func (l *AuditLogger) Timeline(ctx context.Context, q AuditQuery) ([]AuditLog, error) {
	if l == nil || l.db == nil {
		return nil, errors.New("audit logger not initialised")
	}
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	rows, err := l.db.Query(ctx, `SELECT id, actor_id, actor_name, action, entity, entity_id, meta, occurred_at
FROM console_audit_logs
WHERE ($1::timestamptz IS NULL OR occurred_at >= $1)
  AND ($2::timestamptz IS NULL OR occurred_at < $2)
  AND ($3 = '' OR actor_id = $3 OR actor_name ILIKE '%' || $3 || '%')
  AND ($4 = '' OR entity = $4)
  AND ($5 = '' OR action = $5)
ORDER BY occurred_at DESC, id DESC LIMIT $6 OFFSET $7`,
		optionalTime(q.From), optionalTime(q.To), q.Actor, q.Entity, q.Action, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	logs := make([]AuditLog, 0, q.Limit)
	for rows.Next() {
		var entry AuditLog
		var meta []byte
		if err := rows.Scan(&entry.ID, &entry.ActorID, &entry.ActorName, &entry.Action, &entry.Entity, &entry.EntityID, &meta, &entry.At); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &entry.Meta)
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

// Prune deletes the entries older than before and reports how many went.
func (l *AuditLogger) Prune(ctx context.Context, before time.Time) (int64, error) {
	if l == nil || l.db == nil {
		return 0, errors.New("audit logger not initialised")
	}
	tag, err := l.db.Exec(ctx, `DELETE FROM console_audit_logs WHERE occurred_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
