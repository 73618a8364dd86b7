package reports

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/stu-kho/kho-console/internal/backend"
)

// Backend report endpoints.
const (
	inventoryPath   = "/baocao/tonkho"
	historyPath     = "/baocao/lichsu"
	nxtPath         = "/baocao/nxt"
	nxtExportPath   = "/baocao/nxt/export"
	statsPath       = "/dashboard/stats"
	chartPath       = "/dashboard/chart"
	topProductsPath = "/dashboard/top-products"
	alertsPath      = "/dashboard/alerts"
)

// Repository reads the reports of the backend.
type Repository struct {
	client *backend.Client
}

// NewRepository constructs a Repository.
func NewRepository(client *backend.Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) Inventory(ctx context.Context) ([]InventoryRow, error) {
	return list[InventoryRow](ctx, r.client, inventoryPath, nil)
}

func (r *Repository) History(ctx context.Context) ([]HistoryRow, error) {
	return list[HistoryRow](ctx, r.client, historyPath, nil)
}

func (r *Repository) NXT(ctx context.Context, p Period) ([]NXTRow, error) {
	return list[NXTRow](ctx, r.client, nxtPath, p.query())
}

// ExportNXT opens the spreadsheet rendering of the NXT report.
func (r *Repository) ExportNXT(ctx context.Context, p Period) (*http.Response, error) {
	return r.client.Stream(ctx, nxtExportPath, p.query())
}

func (r *Repository) Stats(ctx context.Context, p Period) (Stats, error) {
	var out Stats
	err := r.client.Do(ctx, http.MethodGet, statsPath, p.query(), nil, &out)
	return out, err
}

func (r *Repository) Chart(ctx context.Context, year int) ([]ChartPoint, error) {
	return list[ChartPoint](ctx, r.client, chartPath, url.Values{"year": {strconv.Itoa(year)}})
}

func (r *Repository) TopProducts(ctx context.Context, p Period, kind string, limit int) ([]TopProduct, error) {
	q := p.query()
	q.Set("type", kind)
	q.Set("limit", strconv.Itoa(limit))
	return list[TopProduct](ctx, r.client, topProductsPath, q)
}

func (r *Repository) Alerts(ctx context.Context) (Alerts, error) {
	var out Alerts
	if err := r.client.Do(ctx, http.MethodGet, alertsPath, nil, nil, &out); err != nil {
		return Alerts{}, err
	}
	out.fill()
	return out, nil
}

func list[T any](ctx context.Context, client *backend.Client, path string, query url.Values) ([]T, error) {
	data, err := client.Raw(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return backend.DecodeList[T](data)
}

func (p Period) query() url.Values {
	return url.Values{"from": {p.From}, "to": {p.To}}
}
