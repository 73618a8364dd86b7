package vouchers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/stu-kho/kho-console/internal/listing"
	"github.com/stu-kho/kho-console/internal/masterdata/warehouses"
)

var messages = map[string]string{
	"maNCC":               "Chọn nhà cung cấp",
	"maKH":                "Chọn khách hàng",
	"maKho":               "Chọn kho",
	"maKhoXuat":           "Chọn kho xuất",
	"maKhoNhap":           "Chọn kho nhập",
	"chungTu.required":    "Nhập chứng từ",
	"chungTu.max":         "Chứng từ tối đa 100 ký tự",
	"ghiChu":              "Ghi chú tối đa 255 ký tự",
	"chiTiet":             "Vui lòng thêm ít nhất một sản phẩm!",
	"maSP":                "Chọn sản phẩm",
	"soLuong":             "Số lượng phải là số nguyên dương",
	"donGia":              "Nhập giá",
	"soLo.required":       "Nhập lô",
	"soLo.max":            "Số lô tối đa 50 ký tự",
	"ngayHetHan.required": "Nhập ngày hết hạn",
	"ngayHetHan.datetime": "Ngày hết hạn không hợp lệ",
}

// line is the part of a voucher line the stock rules look at.
type line struct {
	product  int64
	quantity int64
	lot      string
}

func checkPrices(prices ...*decimal.Decimal) error {
	for _, p := range prices {
		if p != nil && p.IsNegative() {
			return listing.Invalid("donGia", "Đơn giá không được âm")
		}
	}
	return nil
}

// checkStock rejects lines asking for more than the warehouse holds. Lines
// naming a lot are checked against that lot, the others against the sum of
// the product's lots; every product is also checked as a whole.
func checkStock(stock warehouses.Stock, lines []line) error {
	type key struct {
		product int64
		lot     string
	}
	perLot := make(map[key]int64)
	perProduct := make(map[int64]int64)
	var order []key
	for _, l := range lines {
		lot := strings.TrimSpace(l.lot)
		if lot == PendingLot {
			lot = ""
		}
		k := key{product: l.product, lot: lot}
		if _, seen := perLot[k]; !seen {
			order = append(order, k)
		}
		perLot[k] += l.quantity
		perProduct[l.product] += l.quantity
	}
	for _, k := range order {
		if k.lot == "" {
			continue
		}
		if have := stock.OnHand(k.product, k.lot); have < perLot[k] {
			return listing.Invalid("soLuong", fmt.Sprintf("Lô %s không đủ số lượng (Cần %d, Có %d).", k.lot, perLot[k], have))
		}
	}
	for _, k := range order {
		need := perProduct[k.product]
		if have := stock.OnHand(k.product, ""); have < need {
			return listing.Invalid("soLuong", fmt.Sprintf("SP %d: Tổng tồn kho không đủ (Cần %d, Có %d)", k.product, need, have))
		}
	}
	return nil
}

func requireLots(lines []line, message string) error {
	for _, l := range lines {
		lot := strings.TrimSpace(l.lot)
		if lot == "" || lot == PendingLot {
			return listing.Invalid("soLo", message)
		}
	}
	return nil
}

// statusOf finds the status of the voucher being edited: from the loaded
// list when possible, from the backend otherwise. New vouchers are pending.
func statusOf[T Record](ctx context.Context, snap listing.Snapshot[T], id int64, get func(context.Context, int64) (T, error)) (Status, error) {
	if id == 0 {
		return Pending, nil
	}
	for _, rec := range snap.Rows {
		if rec.VoucherID() == id {
			return rec.VoucherStatus(), nil
		}
	}
	rec, err := get(ctx, id)
	if err != nil {
		return 0, err
	}
	return rec.VoucherStatus(), nil
}

func importCheck(v *validator.Validate) func(context.Context, listing.Snapshot[Import], ImportInput, int64) error {
	return func(_ context.Context, _ listing.Snapshot[Import], in ImportInput, _ int64) error {
		if err := listing.Struct(v, in, messages); err != nil {
			return err
		}
		prices := make([]*decimal.Decimal, 0, len(in.Lines))
		for _, l := range in.Lines {
			prices = append(prices, l.UnitPrice)
		}
		return checkPrices(prices...)
	}
}

func exportCheck(v *validator.Validate, stock warehouses.StockReader, get func(context.Context, int64) (Export, error)) func(context.Context, listing.Snapshot[Export], ExportInput, int64) error {
	return func(ctx context.Context, snap listing.Snapshot[Export], in ExportInput, id int64) error {
		if err := listing.Struct(v, in, messages); err != nil {
			return err
		}
		lines := make([]line, 0, len(in.Lines))
		prices := make([]*decimal.Decimal, 0, len(in.Lines))
		for _, l := range in.Lines {
			lines = append(lines, line{product: l.ProductID, quantity: l.Quantity, lot: l.Lot})
			prices = append(prices, l.UnitPrice)
		}
		if err := checkPrices(prices...); err != nil {
			return err
		}
		status, err := statusOf(ctx, snap, id, get)
		if err != nil {
			return err
		}
		if status == Approved {
			// Approved vouchers already moved stock; the backend reconciles it.
			return requireLots(lines, "Khi sửa phiếu ĐÃ DUYỆT, bạn phải chọn Số Lô cụ thể.")
		}
		onHand, err := stock.Stock(ctx, in.WarehouseID)
		if err != nil {
			return fmt.Errorf("vouchers: stock of warehouse %d: %w", in.WarehouseID, err)
		}
		return checkStock(onHand, lines)
	}
}

func transferCheck(v *validator.Validate, stock warehouses.StockReader, get func(context.Context, int64) (Transfer, error)) func(context.Context, listing.Snapshot[Transfer], TransferInput, int64) error {
	return func(ctx context.Context, snap listing.Snapshot[Transfer], in TransferInput, id int64) error {
		if err := listing.Struct(v, in, messages); err != nil {
			return err
		}
		if in.SourceID == in.TargetID {
			return listing.Invalid("maKhoNhap", "Kho xuất và Kho nhập không được trùng nhau.")
		}
		lines := make([]line, 0, len(in.Lines))
		for _, l := range in.Lines {
			lines = append(lines, line{product: l.ProductID, quantity: l.Quantity, lot: l.Lot})
		}
		status, err := statusOf(ctx, snap, id, get)
		if err != nil {
			return err
		}
		if status == Approved {
			return requireLots(lines, "Khi sửa phiếu ĐÃ DUYỆT, bắt buộc phải chọn Số Lô cụ thể.")
		}
		onHand, err := stock.Stock(ctx, in.SourceID)
		if err != nil {
			return fmt.Errorf("vouchers: stock of warehouse %d: %w", in.SourceID, err)
		}
		return checkStock(onHand, lines)
	}
}
