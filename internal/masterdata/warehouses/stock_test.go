package warehouses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/stu-kho/kho-console/internal/listing"
	md "github.com/stu-kho/kho-console/internal/masterdata/shared"
	"github.com/stu-kho/kho-console/internal/rbac"
	"github.com/stu-kho/kho-console/internal/shared"
)

func TestOnHandSumsLots(t *testing.T) {
	stock := Stock{
		{ProductID: 1, Lot: "L1", Quantity: 4},
		{ProductID: 1, Lot: "L2", Quantity: 6},
		{ProductID: 2, Lot: "L1", Quantity: 9},
	}
	require.Equal(t, int64(10), stock.OnHand(1, ""))
	require.Equal(t, int64(6), stock.OnHand(1, "L2"))
	require.Equal(t, int64(0), stock.OnHand(1, "L9"))
	require.Equal(t, int64(0), stock.OnHand(3, ""))
}

func TestKeywordMatchesNameOrAddress(t *testing.T) {
	w := Warehouse{Name: "Kho Đà Nẵng", Address: "12 Lê Duẩn"}
	require.True(t, matches(md.KeywordFilter{Query: "da nang"}, w))
	require.True(t, matches(md.KeywordFilter{Query: "LÊ DUẨN"}, w))
	require.False(t, matches(md.KeywordFilter{Query: "Huế"}, w))
}

type stubSource struct {
	listing.Source[Warehouse, md.KeywordFilter, Input]
	rows []Warehouse
}

func (s stubSource) List(context.Context) ([]Warehouse, error) { return s.rows, nil }

type stubStock struct {
	lots Stock
	err  error
}

func (s stubStock) Stock(context.Context, int64) (Stock, error) { return s.lots, s.err }

func serveStock(t *testing.T, reader StockReader) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	src := stubSource{rows: []Warehouse{{ID: 7, Name: "Kho A", Address: "HN"}}}
	h := NewHandler(nil, NewConfig(src, nil, 5), reader, 0)
	r := chi.NewRouter()
	h.MountRoutes(r)

	p, err := rbac.Decode([]byte(`{"vaiTro":"USER","dsQuyenSoHuu":[70]}`))
	require.NoError(t, err)
	sess := &shared.Session{ID: "s1"}
	ctx := rbac.WithPrincipal(shared.ContextWithSession(context.Background(), sess), p)

	// Load the list so the warehouse is resolved locally.
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/7/stock", nil).WithContext(ctx))
	return rec, sess
}

func TestStockView(t *testing.T) {
	rec, _ := serveStock(t, stubStock{lots: Stock{{ProductID: 1, ProductName: "Gạo", Lot: "L1", Quantity: 3}}})
	require.Equal(t, http.StatusOK, rec.Code)

	var body stockView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Kho A", body.Warehouse.Name)
	require.Len(t, body.Lots, 1)
	require.Equal(t, int64(3), body.Lots[0].Quantity)
}

func TestStockFailureAddsNotice(t *testing.T) {
	rec, _ := serveStock(t, stubStock{err: errors.New("boom")})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body struct {
		Notices []shared.Notice `json:"notices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Notices, 1)
	require.Equal(t, "Không thể tải tồn kho!", body.Notices[0].Message)
}

func TestRowActionsOfferStockOutsideTrash(t *testing.T) {
	cfg := NewConfig(stubSource{}, nil, 5)
	p, err := rbac.Decode([]byte(`{"vaiTro":"USER","dsQuyenSoHuu":[70,72]}`))
	require.NoError(t, err)
	require.Equal(t, []listing.Action{listing.ActionView, listing.ActionEdit}, cfg.RowActions(p, Warehouse{}, false))
	require.Empty(t, cfg.RowActions(p, Warehouse{}, true))
}
