package reports

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Top products shown on the dashboard.
const (
	topKind  = "export"
	topLimit = 5
)

// Source is the backend side of the reports.
type Source interface {
	Inventory(ctx context.Context) ([]InventoryRow, error)
	History(ctx context.Context) ([]HistoryRow, error)
	NXT(ctx context.Context, p Period) ([]NXTRow, error)
	ExportNXT(ctx context.Context, p Period) (*http.Response, error)
	Stats(ctx context.Context, p Period) (Stats, error)
	Chart(ctx context.Context, year int) ([]ChartPoint, error)
	TopProducts(ctx context.Context, p Period, kind string, limit int) ([]TopProduct, error)
	Alerts(ctx context.Context) (Alerts, error)
}

// Service loads reports through the cache. Concurrent loads of the same
// report share one backend call.
type Service struct {
	source Source
	cache  *Cache
	logger *slog.Logger
	group  singleflight.Group
}

// NewService wires a Source with a Cache.
func NewService(source Source, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, cache: cache, logger: logger}
}

func (s *Service) Inventory(ctx context.Context) ([]InventoryRow, error) {
	return cached(ctx, s, []string{"inventory"}, s.source.Inventory)
}

func (s *Service) History(ctx context.Context) ([]HistoryRow, error) {
	return cached(ctx, s, []string{"history"}, s.source.History)
}

func (s *Service) NXT(ctx context.Context, p Period) ([]NXTRow, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}
	return cached(ctx, s, []string{"nxt", p.From, p.To}, func(ctx context.Context) ([]NXTRow, error) {
		return s.source.NXT(ctx, p)
	})
}

// ExportNXT opens the NXT spreadsheet. Exports are never cached.
func (s *Service) ExportNXT(ctx context.Context, p Period) (*http.Response, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}
	return s.source.ExportNXT(ctx, p)
}

// Dashboard loads every dashboard part concurrently. A failing part is
// logged, named in Failed and left empty.
func (s *Service) Dashboard(ctx context.Context, p Period, year int) (Dashboard, error) {
	if err := p.Check(); err != nil {
		return Dashboard{}, err
	}
	out := Dashboard{Period: p, Year: year}
	var (
		mu     sync.Mutex
		failed []string
		g      errgroup.Group
	)
	settle := func(part string, fetch func() error) {
		g.Go(func() error {
			if err := fetch(); err != nil {
				s.logger.WarnContext(ctx, "dashboard part failed", slog.String("part", part), slog.Any("error", err))
				mu.Lock()
				failed = append(failed, part)
				mu.Unlock()
			}
			return nil
		})
	}
	settle("stats", func() (err error) {
		out.Stats, err = cached(ctx, s, []string{"stats", p.From, p.To}, func(ctx context.Context) (Stats, error) {
			return s.source.Stats(ctx, p)
		})
		return err
	})
	settle("chart", func() (err error) {
		out.Chart, err = cached(ctx, s, []string{"chart", strconv.Itoa(year)}, func(ctx context.Context) ([]ChartPoint, error) {
			return s.source.Chart(ctx, year)
		})
		return err
	})
	settle("topProducts", func() (err error) {
		parts := []string{"top", p.From, p.To, topKind, strconv.Itoa(topLimit)}
		out.TopProducts, err = cached(ctx, s, parts, func(ctx context.Context) ([]TopProduct, error) {
			return s.source.TopProducts(ctx, p, topKind, topLimit)
		})
		return err
	})
	settle("alerts", func() (err error) {
		out.Alerts, err = cached(ctx, s, []string{"alerts"}, s.source.Alerts)
		return err
	})
	_ = g.Wait()

	sort.Strings(failed)
	out.Failed = failed
	if out.Chart == nil {
		out.Chart = []ChartPoint{}
	}
	if out.TopProducts == nil {
		out.TopProducts = []TopProduct{}
	}
	out.Alerts.fill()
	return out, nil
}

// Invalidate drops every cached report.
func (s *Service) Invalidate(ctx context.Context) (int64, error) {
	ver, err := s.cache.Bump(ctx)
	if err != nil {
		return 0, fmt.Errorf("reports: invalidate: %w", err)
	}
	return ver, nil
}

func cached[T any](ctx context.Context, s *Service, parts []string, load func(context.Context) (T, error)) (T, error) {
	key, err := s.cache.BuildKey(ctx, parts...)
	if err != nil {
		s.logger.WarnContext(ctx, "report cache unavailable", slog.Any("error", err))
		return load(ctx)
	}
	v, err, _ := s.group.Do(key, func() (any, error) {
		var out T
		err := s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
			return load(ctx)
		})
		return out, err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
