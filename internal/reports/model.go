// Package reports serves the stock reports and the dashboard. Results are
// cached in Redis and shared by every console session.
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stu-kho/kho-console/internal/listing"
)

const dateLayout = "2006-01-02"

// InventoryRow is one lot of the current stock report.
type InventoryRow struct {
	ProductID   int64  `json:"maSP"`
	ProductName string `json:"tenSP"`
	Unit        string `json:"donViTinh"`
	Warehouse   string `json:"tenKho"`
	OnHand      int64  `json:"soLuongTon"`
	Min         int64  `json:"mucTonToiThieu"`
	Max         int64  `json:"mucTonToiDa"`
	Lot         string `json:"soLo"`
	Expiry      string `json:"ngayHetHan"`
	Warning     string `json:"trangThaiCanhBao"`
}

// Movement kinds of the history report.
const (
	MovementImport      = "NHAP"
	MovementExport      = "XUAT"
	MovementTransferOut = "CHUYEN_DI"
	MovementTransferIn  = "CHUYEN_DEN"
)

// HistoryRow is one stock movement.
type HistoryRow struct {
	At          string `json:"ngay"`
	Kind        string `json:"loaiGiaoDich"`
	Document    string `json:"chungTu"`
	ProductName string `json:"tenSP"`
	Quantity    int64  `json:"soLuong"`
	Warehouse   string `json:"tenKho,omitempty"`
}

// Inbound reports whether the movement adds stock.
func (h HistoryRow) Inbound() bool {
	return h.Kind == MovementImport || h.Kind == MovementTransferIn
}

// NXTRow is one line of the import/export/balance report.
type NXTRow struct {
	ProductID    int64           `json:"maSP"`
	ProductName  string          `json:"tenSP"`
	Unit         string          `json:"donViTinh"`
	Lot          string          `json:"soLo"`
	Expiry       string          `json:"ngayHetHan"`
	Opening      int64           `json:"tonDau"`
	In           int64           `json:"slNhap"`
	Out          int64           `json:"slXuat"`
	Closing      int64           `json:"tonCuoi"`
	ClosingValue decimal.Decimal `json:"giaTriTonCuoi"`
}

// Period is an inclusive date range in yyyy-mm-dd.
type Period struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Check requires both dates, well formed and in order.
func (p Period) Check() error {
	from, err := time.Parse(dateLayout, p.From)
	if err != nil {
		return listing.Invalid("from", "Ngày bắt đầu không hợp lệ")
	}
	to, err := time.Parse(dateLayout, p.To)
	if err != nil {
		return listing.Invalid("to", "Ngày kết thúc không hợp lệ")
	}
	if from.After(to) {
		return listing.Invalid("from", "Ngày bắt đầu phải trước ngày kết thúc")
	}
	return nil
}

// MonthToDate is the period from the first of now's month to now.
func MonthToDate(now time.Time) Period {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Period{From: first.Format(dateLayout), To: now.Format(dateLayout)}
}

// Stats are the dashboard totals of a period.
type Stats struct {
	ImportCost    decimal.Decimal `json:"tongVonNhap"`
	ExportRevenue decimal.Decimal `json:"tongDoanhThuXuat"`
	Profit        decimal.Decimal `json:"loiNhuanUocTinh"`
	OnHand        int64           `json:"tongTonKho"`
}

// ChartPoint is one month of the yearly import/export chart.
type ChartPoint struct {
	Month  string          `json:"thang"`
	Import decimal.Decimal `json:"nhap"`
	Export decimal.Decimal `json:"xuat"`
}

// TopProduct is one entry of the best movers list.
type TopProduct struct {
	ProductID   int64           `json:"maSP"`
	ProductName string          `json:"tenSP"`
	Quantity    int64           `json:"tongSoLuong"`
	Value       decimal.Decimal `json:"tongGiaTri"`
}

// AlertItem is a product or lot needing attention.
type AlertItem struct {
	ProductID   int64  `json:"maSP"`
	ProductName string `json:"tenSP"`
	Lot         string `json:"soLo,omitempty"`
	Expiry      string `json:"ngayHetHan,omitempty"`
	OnHand      int64  `json:"soLuongTon"`
	Min         int64  `json:"mucTonToiThieu,omitempty"`
}

// Alerts groups the dashboard warnings.
type Alerts struct {
	LowStock []AlertItem `json:"sapHetHang"`
	Expired  []AlertItem `json:"hetHanSuDung"`
	Negative []AlertItem `json:"tonAm"`
}

func (a *Alerts) fill() {
	if a.LowStock == nil {
		a.LowStock = []AlertItem{}
	}
	if a.Expired == nil {
		a.Expired = []AlertItem{}
	}
	if a.Negative == nil {
		a.Negative = []AlertItem{}
	}
}

// Dashboard is the combined dashboard payload. Failed names the parts that
// could not be loaded; they keep their empty value.
type Dashboard struct {
	Period      Period       `json:"period"`
	Year        int          `json:"year"`
	Stats       Stats        `json:"stats"`
	Chart       []ChartPoint `json:"chart"`
	TopProducts []TopProduct `json:"topProducts"`
	Alerts      Alerts       `json:"alerts"`
	Failed      []string     `json:"failed,omitempty"`
}
