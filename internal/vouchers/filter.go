package vouchers

import (
	"strings"
	"time"

	"github.com/stu-kho/kho-console/internal/listing"
)

const dateLayout = "2006-01-02"

// Filter is the advanced search of the voucher lists. Partner and warehouse
// fields apply to the kinds that carry them.
type Filter struct {
	Document    string  `json:"chungTu,omitempty"`
	Status      *Status `json:"trangThai,omitempty"`
	WarehouseID int64   `json:"maKho,omitempty"`
	SupplierID  int64   `json:"maNCC,omitempty"`
	CustomerID  int64   `json:"maKH,omitempty"`
	SourceID    int64   `json:"maKhoXuat,omitempty"`
	TargetID    int64   `json:"maKhoNhap,omitempty"`
	FromDate    string  `json:"fromDate,omitempty"`
	ToDate      string  `json:"toDate,omitempty"`
}

// IsEmpty reports whether no criterion is set.
func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.Document) == "" && f.Status == nil &&
		f.WarehouseID == 0 && f.SupplierID == 0 && f.CustomerID == 0 &&
		f.SourceID == 0 && f.TargetID == 0 && f.FromDate == "" && f.ToDate == ""
}

// Check rejects malformed dates, a reversed range and unknown statuses.
func (f Filter) Check() error {
	if f.Status != nil && !f.Status.Valid() {
		return listing.Invalid("trangThai", "Trạng thái không hợp lệ")
	}
	if (f.FromDate == "") != (f.ToDate == "") {
		return listing.Invalid("fromDate", "Chọn đủ ngày bắt đầu và ngày kết thúc")
	}
	if f.FromDate == "" {
		return nil
	}
	from, err := time.Parse(dateLayout, f.FromDate)
	if err != nil {
		return listing.Invalid("fromDate", "Ngày bắt đầu không hợp lệ")
	}
	to, err := time.Parse(dateLayout, f.ToDate)
	if err != nil {
		return listing.Invalid("toDate", "Ngày kết thúc không hợp lệ")
	}
	if from.After(to) {
		return listing.Invalid("fromDate", "Ngày bắt đầu phải trước ngày kết thúc")
	}
	return nil
}

// payload is the body of POST /{voucher}/filter: a 0-based page, the size
// and every criterion of the kind, null when unset.
func (f Filter) payload(page, size int, keys ...string) map[string]any {
	if page < 1 {
		page = 1
	}
	body := map[string]any{
		"page":      page - 1,
		"size":      size,
		"chungTu":   nullString(strings.TrimSpace(f.Document)),
		"trangThai": nil,
		"fromDate":  nullString(f.FromDate),
		"toDate":    nullString(f.ToDate),
	}
	if f.Status != nil {
		body["trangThai"] = int(*f.Status)
	}
	values := map[string]int64{
		"maKho":     f.WarehouseID,
		"maNCC":     f.SupplierID,
		"maKH":      f.CustomerID,
		"maKhoXuat": f.SourceID,
		"maKhoNhap": f.TargetID,
	}
	for _, k := range keys {
		body[k] = nullID(values[k])
	}
	return body
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
