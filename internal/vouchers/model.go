package vouchers

import (
	"time"

	"github.com/shopspring/decimal"
)

// Import is a goods receipt from a supplier (/phieunhap).
type Import struct {
	ID          int64           `json:"maPhieuNhap"`
	CreatedAt   Timestamp       `json:"ngayLapPhieu"`
	Status      Status          `json:"trangThai"`
	Total       decimal.Decimal `json:"tongTien"`
	SupplierID  int64           `json:"maNCC"`
	WarehouseID int64           `json:"maKho"`
	Document    string          `json:"chungTu"`
	CreatedBy   int64           `json:"nguoiLap,omitempty"`
	ApprovedBy  int64           `json:"nguoiDuyet,omitempty"`
	Lines       []ImportLine    `json:"chiTiet,omitempty"`
}

func (v Import) VoucherID() int64      { return v.ID }
func (v Import) VoucherStatus() Status { return v.Status }
func (v Import) Created() time.Time    { return v.CreatedAt.Time }

// ImportLine is one received lot.
type ImportLine struct {
	ProductID int64           `json:"maSP"`
	Quantity  int64           `json:"soLuong"`
	UnitPrice decimal.Decimal `json:"donGia"`
	Amount    decimal.Decimal `json:"thanhTien"`
	Lot       string          `json:"soLo"`
	ExpiresOn string          `json:"ngayHetHan,omitempty"`
}

// ImportInput is the import voucher form.
type ImportInput struct {
	SupplierID  int64             `json:"maNCC" validate:"required,gt=0"`
	WarehouseID int64             `json:"maKho" validate:"required,gt=0"`
	Document    string            `json:"chungTu" validate:"required,max=100"`
	Lines       []ImportLineInput `json:"chiTiet" validate:"required,min=1,dive"`
}

// ImportLineInput is one line of the import form. Lots and expiry dates are
// mandatory on receipt.
type ImportLineInput struct {
	ProductID int64            `json:"maSP" validate:"required,gt=0"`
	Quantity  int64            `json:"soLuong" validate:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"donGia" validate:"required"`
	Lot       string           `json:"soLo" validate:"required,max=50"`
	ExpiresOn string           `json:"ngayHetHan" validate:"required,datetime=2006-01-02"`
}

// Export is a goods issue to a customer (/phieuxuat).
type Export struct {
	ID          int64           `json:"maPhieuXuat"`
	CreatedAt   Timestamp       `json:"ngayLapPhieu"`
	Status      Status          `json:"trangThai"`
	Total       decimal.Decimal `json:"tongTien"`
	CustomerID  int64           `json:"maKH"`
	WarehouseID int64           `json:"maKho"`
	Document    string          `json:"chungTu"`
	CreatedBy   int64           `json:"nguoiLap,omitempty"`
	ApprovedBy  int64           `json:"nguoiDuyet,omitempty"`
	Lines       []ExportLine    `json:"chiTiet,omitempty"`
}

func (v Export) VoucherID() int64      { return v.ID }
func (v Export) VoucherStatus() Status { return v.Status }
func (v Export) Created() time.Time    { return v.CreatedAt.Time }

// ExportLine is one issued quantity. The backend reports "PENDING" as the
// lot of lines whose lot is allocated on approval.
type ExportLine struct {
	ProductID int64           `json:"maSP"`
	Quantity  int64           `json:"soLuong"`
	UnitPrice decimal.Decimal `json:"donGia"`
	Amount    decimal.Decimal `json:"thanhTien"`
	Lot       string          `json:"soLo,omitempty"`
}

// PendingLot is the placeholder lot of an unallocated export line.
const PendingLot = "PENDING"

// ExportInput is the export voucher form.
type ExportInput struct {
	CustomerID  int64             `json:"maKH" validate:"required,gt=0"`
	WarehouseID int64             `json:"maKho" validate:"required,gt=0"`
	Document    string            `json:"chungTu" validate:"required,max=100"`
	Lines       []ExportLineInput `json:"chiTiet" validate:"required,min=1,dive"`
}

// ExportLineInput is one line of the export form. An empty lot lets the
// backend pick lots on approval.
type ExportLineInput struct {
	ProductID int64            `json:"maSP" validate:"required,gt=0"`
	Quantity  int64            `json:"soLuong" validate:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"donGia" validate:"required"`
	Lot       string           `json:"soLo,omitempty" validate:"max=50"`
}

// Transfer moves stock between two warehouses (/dieuchuyen).
type Transfer struct {
	ID         int64          `json:"maPhieuDC"`
	CreatedAt  Timestamp      `json:"ngayChuyen"`
	Status     Status         `json:"trangThai"`
	SourceID   int64          `json:"maKhoXuat"`
	TargetID   int64          `json:"maKhoNhap"`
	Document   string         `json:"chungTu"`
	Note       string         `json:"ghiChu,omitempty"`
	CreatedBy  int64          `json:"nguoiLap,omitempty"`
	ApprovedBy int64          `json:"nguoiDuyet,omitempty"`
	Lines      []TransferLine `json:"chiTiet,omitempty"`
}

func (v Transfer) VoucherID() int64      { return v.ID }
func (v Transfer) VoucherStatus() Status { return v.Status }
func (v Transfer) Created() time.Time    { return v.CreatedAt.Time }

// TransferLine is one moved quantity.
type TransferLine struct {
	ProductID int64  `json:"maSP"`
	Quantity  int64  `json:"soLuong"`
	Lot       string `json:"soLo,omitempty"`
	ExpiresOn string `json:"ngayHetHan,omitempty"`
}

// TransferInput is the transfer form.
type TransferInput struct {
	SourceID int64               `json:"maKhoXuat" validate:"required,gt=0"`
	TargetID int64               `json:"maKhoNhap" validate:"required,gt=0"`
	Document string              `json:"chungTu" validate:"required,max=100"`
	Note     string              `json:"ghiChu" validate:"max=255"`
	Lines    []TransferLineInput `json:"chiTiet" validate:"required,min=1,dive"`
}

// TransferLineInput is one line of the transfer form.
type TransferLineInput struct {
	ProductID int64  `json:"maSP" validate:"required,gt=0"`
	Quantity  int64  `json:"soLuong" validate:"required,min=1"`
	Lot       string `json:"soLo,omitempty" validate:"max=50"`
}
