package vouchers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stu-kho/kho-console/internal/platform/httpx"
)

func TestFilterCheck(t *testing.T) {
	approved := Approved
	bogus := Status(7)

	require.NoError(t, Filter{Status: &approved}.Check())
	require.NoError(t, Filter{FromDate: "2025-01-01", ToDate: "2025-01-01"}.Check())
	require.ErrorIs(t, Filter{Status: &bogus}.Check(), httpx.ErrValidation)
	require.ErrorIs(t, Filter{FromDate: "2025-02-01", ToDate: "2025-01-01"}.Check(), httpx.ErrValidation)
	require.ErrorIs(t, Filter{FromDate: "2025-02-01"}.Check(), httpx.ErrValidation)
	require.ErrorIs(t, Filter{FromDate: "01/02/2025", ToDate: "2025-03-01"}.Check(), httpx.ErrValidation)
}

func TestFilterIsEmpty(t *testing.T) {
	pending := Pending
	require.True(t, Filter{Document: "  "}.IsEmpty())
	require.False(t, Filter{Status: &pending}.IsEmpty())
	require.False(t, Filter{TargetID: 2}.IsEmpty())
}

func TestFilterPayload(t *testing.T) {
	pending := Pending
	f := Filter{Document: " PN-7 ", Status: &pending, WarehouseID: 3, CustomerID: 8}

	data, err := json.Marshal(f.payload(2, 5, "maKho", "maNCC"))
	require.NoError(t, err)
	require.JSONEq(t, `{
		"page": 1, "size": 5, "chungTu": "PN-7", "trangThai": 1,
		"maKho": 3, "maNCC": null, "fromDate": null, "toDate": null
	}`, string(data))
}

func TestTimestampShapes(t *testing.T) {
	for _, raw := range []string{
		`"2025-03-01T08:30:00"`,
		`"2025-03-01T08:30:00.123456"`,
		`"2025-03-01 08:30:00"`,
	} {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)
		require.Equal(t, 2025, ts.Year())
		require.Equal(t, 8, ts.Hour())
	}

	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	require.True(t, ts.IsZero())
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}
