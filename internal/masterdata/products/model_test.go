package products

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stu-kho/kho-console/internal/listing"
)

func TestFilterMatch(t *testing.T) {
	p := Product{Name: "Sữa tươi Vinamilk", CategoryID: 2, SupplierIDs: []int64{4, 5}}

	require.True(t, Filter{}.Match(p))
	require.True(t, Filter{Name: "sua tuoi"}.Match(p))
	require.True(t, Filter{Name: "VINAMILK", CategoryID: 2, SupplierID: 5}.Match(p))
	require.False(t, Filter{CategoryID: 3}.Match(p))
	require.False(t, Filter{SupplierID: 6}.Match(p))
	require.False(t, Filter{Name: "bánh"}.Match(p))
}

func TestFilterIsEmpty(t *testing.T) {
	require.True(t, Filter{Name: "  "}.IsEmpty())
	require.False(t, Filter{SupplierID: 1}.IsEmpty())
}

func ptr[T any](v T) *T { return &v }

func TestCheck(t *testing.T) {
	valid := Input{
		Name:        "Gạo ST25",
		CategoryID:  1,
		Unit:        "kg",
		Price:       ptr(decimal.RequireFromString("25000")),
		MinStock:    ptr(int64(10)),
		MaxStock:    ptr(int64(100)),
		SupplierIDs: []int64{3},
	}
	run := check(listing.NewValidator())
	require.NoError(t, run(context.Background(), listing.Snapshot[Product]{}, valid, 0))

	cases := map[string]func(in *Input){
		"danhSachMaNCC": func(in *Input) { in.SupplierIDs = nil },
		"giaNhap":       func(in *Input) { in.Price = ptr(decimal.NewFromInt(-1)) },
		"mucTonToiDa":   func(in *Input) { in.MaxStock = ptr(int64(5)) },
		"maLoai":        func(in *Input) { in.CategoryID = 0 },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			in := valid
			mutate(&in)
			err := run(context.Background(), listing.Snapshot[Product]{}, in, 0)
			var verr *listing.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, field, verr.Field)
		})
	}
}
