package vouchers

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stu-kho/kho-console/internal/listing"
	"github.com/stu-kho/kho-console/internal/masterdata/warehouses"
)

type stockStub struct {
	stock warehouses.Stock
	asked []int64
}

func (s *stockStub) Stock(_ context.Context, id int64) (warehouses.Stock, error) {
	s.asked = append(s.asked, id)
	return s.stock, nil
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func noGet[T Record](context.Context, int64) (T, error) {
	var zero T
	return zero, errors.New("unexpected backend read")
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var verr *listing.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Field
}

var sampleStock = warehouses.Stock{
	{ProductID: 1, Lot: "A", Quantity: 5},
	{ProductID: 1, Lot: "B", Quantity: 3},
	{ProductID: 2, Lot: "A", Quantity: 1},
}

func TestCheckStock(t *testing.T) {
	require.NoError(t, checkStock(sampleStock, []line{{product: 1, quantity: 8}}))
	require.NoError(t, checkStock(sampleStock, []line{{product: 1, quantity: 5, lot: "A"}, {product: 1, quantity: 3, lot: "B"}}))

	err := checkStock(sampleStock, []line{{product: 1, quantity: 9}})
	require.Equal(t, "soLuong", fieldOf(t, err))
	require.Contains(t, err.Error(), "Cần 9, Có 8")

	err = checkStock(sampleStock, []line{{product: 1, quantity: 4, lot: "B"}})
	require.Contains(t, err.Error(), "Lô B không đủ số lượng")

	// Two lines of the same product add up.
	err = checkStock(sampleStock, []line{{product: 2, quantity: 1}, {product: 2, quantity: 1}})
	require.Error(t, err)

	require.Error(t, checkStock(sampleStock, []line{{product: 3, quantity: 1}}))
}

func exportInput(lines ...ExportLineInput) ExportInput {
	return ExportInput{CustomerID: 4, WarehouseID: 9, Document: "PX-01", Lines: lines}
}

func TestExportCheckAgainstStock(t *testing.T) {
	stock := &stockStub{stock: sampleStock}
	check := exportCheck(listing.NewValidator(), stock, noGet[Export])
	ctx := context.Background()

	require.NoError(t, check(ctx, listing.Snapshot[Export]{}, exportInput(ExportLineInput{ProductID: 1, Quantity: 8, UnitPrice: price(10)}), 0))
	require.Equal(t, []int64{9}, stock.asked)

	err := check(ctx, listing.Snapshot[Export]{}, exportInput(ExportLineInput{ProductID: 2, Quantity: 2, UnitPrice: price(10)}), 0)
	require.Equal(t, "soLuong", fieldOf(t, err))
}

func TestExportCheckFormRules(t *testing.T) {
	stock := &stockStub{stock: sampleStock}
	check := exportCheck(listing.NewValidator(), stock, noGet[Export])
	ctx := context.Background()

	require.Equal(t, "chiTiet", fieldOf(t, check(ctx, listing.Snapshot[Export]{}, exportInput(), 0)))
	require.Equal(t, "soLuong", fieldOf(t, check(ctx, listing.Snapshot[Export]{}, exportInput(ExportLineInput{ProductID: 1, Quantity: 0, UnitPrice: price(1)}), 0)))
	require.Equal(t, "donGia", fieldOf(t, check(ctx, listing.Snapshot[Export]{}, exportInput(ExportLineInput{ProductID: 1, Quantity: 1, UnitPrice: price(-1)}), 0)))
	require.Empty(t, stock.asked)
}

func TestApprovedExportEditNeedsLots(t *testing.T) {
	stock := &stockStub{stock: sampleStock}
	check := exportCheck(listing.NewValidator(), stock, noGet[Export])
	snap := listing.Snapshot[Export]{Rows: []Export{{ID: 7, Status: Approved}}}
	ctx := context.Background()

	err := check(ctx, snap, exportInput(ExportLineInput{ProductID: 1, Quantity: 1, UnitPrice: price(1), Lot: PendingLot}), 7)
	require.Equal(t, "soLo", fieldOf(t, err))

	require.NoError(t, check(ctx, snap, exportInput(ExportLineInput{ProductID: 1, Quantity: 1, UnitPrice: price(1), Lot: "A"}), 7))
	require.Empty(t, stock.asked)
}

func TestTransferNeedsDistinctWarehouses(t *testing.T) {
	stock := &stockStub{stock: sampleStock}
	check := transferCheck(listing.NewValidator(), stock, noGet[Transfer])
	in := TransferInput{SourceID: 3, TargetID: 3, Document: "DC-1", Lines: []TransferLineInput{{ProductID: 1, Quantity: 1}}}

	err := check(context.Background(), listing.Snapshot[Transfer]{}, in, 0)
	require.Equal(t, "maKhoNhap", fieldOf(t, err))
	require.Empty(t, stock.asked)

	in.TargetID = 4
	require.NoError(t, check(context.Background(), listing.Snapshot[Transfer]{}, in, 0))
	require.Equal(t, []int64{3}, stock.asked)
}

func TestImportCheckRequiresLotAndExpiry(t *testing.T) {
	check := importCheck(listing.NewValidator())
	in := ImportInput{SupplierID: 1, WarehouseID: 2, Document: "PN-1", Lines: []ImportLineInput{
		{ProductID: 1, Quantity: 3, UnitPrice: price(100), Lot: "L1", ExpiresOn: "2026-01-31"},
	}}
	require.NoError(t, check(context.Background(), listing.Snapshot[Import]{}, in, 0))

	in.Lines[0].ExpiresOn = "31/01/2026"
	require.Equal(t, "ngayHetHan", fieldOf(t, check(context.Background(), listing.Snapshot[Import]{}, in, 0)))

	in.Lines[0].ExpiresOn = "2026-01-31"
	in.Lines[0].Lot = ""
	require.Equal(t, "soLo", fieldOf(t, check(context.Background(), listing.Snapshot[Import]{}, in, 0)))
}
