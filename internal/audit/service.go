package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/stu-kho/kho-console/internal/shared"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
	maxExportRows   = 5000
)

// Repository reads the console audit trail.
type Repository interface {
	Timeline(ctx context.Context, q shared.AuditQuery) ([]shared.AuditLog, error)
}

// Result wraps timeline rows with paging information.
type Result struct {
	Rows   []TimelineRow `json:"rows"`
	Paging PagingInfo    `json:"paging"`
}

// Service coordinates system log reads.
type Service struct {
	repo Repository
}

// NewService builds a system log service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Timeline returns one page of the log, newest first.
func (s *Service) Timeline(ctx context.Context, filters TimelineFilters) (Result, error) {
	if s.repo == nil {
		return Result{}, fmt.Errorf("audit: repository not configured")
	}
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	q := query(filters)
	q.Offset = (page - 1) * pageSize
	q.Limit = pageSize + 1
	logs, err := s.repo.Timeline(ctx, q)
	if err != nil {
		return Result{}, fmt.Errorf("audit: timeline: %w", err)
	}
	hasNext := len(logs) > pageSize
	if hasNext {
		logs = logs[:pageSize]
	}
	paging := PagingInfo{Page: page, PageSize: pageSize, HasNext: hasNext}
	if page > 1 {
		paging.PrevPage = page - 1
	}
	if hasNext {
		paging.NextPage = page + 1
	}
	return Result{Rows: mapRows(logs), Paging: paging}, nil
}

// Export returns every matching row, up to a fixed cap.
func (s *Service) Export(ctx context.Context, filters TimelineFilters) ([]TimelineRow, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("audit: repository not configured")
	}
	q := query(filters)
	q.Limit = maxExportRows
	logs, err := s.repo.Timeline(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("audit: export: %w", err)
	}
	return mapRows(logs), nil
}

func query(f TimelineFilters) shared.AuditQuery {
	return shared.AuditQuery{
		From:   f.From,
		To:     f.To,
		Actor:  strings.TrimSpace(f.Actor),
		Entity: strings.TrimSpace(f.Entity),
		Action: strings.TrimSpace(f.Action),
	}
}

func mapRows(logs []shared.AuditLog) []TimelineRow {
	rows := make([]TimelineRow, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, TimelineRow{
			At:          l.At,
			ActorID:     l.ActorID,
			Actor:       l.ActorName,
			Action:      l.Action,
			ActionLabel: ActionLabel(l.Action),
			Entity:      l.Entity,
			EntityID:    l.EntityID,
		})
	}
	return rows
}
