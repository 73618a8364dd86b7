package products

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	md "github.com/stu-kho/kho-console/internal/masterdata/shared"
)

// Product is a product record of the backend (/sanpham).
type Product struct {
	ID          int64           `json:"maSP"`
	Name        string          `json:"tenSP"`
	CategoryID  int64           `json:"maLoai"`
	Unit        string          `json:"donViTinh"`
	Price       decimal.Decimal `json:"giaNhap"`
	OnHand      int64           `json:"soLuongTon"`
	MinStock    int64           `json:"mucTonToiThieu"`
	MaxStock    int64           `json:"mucTonToiDa"`
	Image       string          `json:"hinhAnh,omitempty"`
	SupplierIDs []int64         `json:"danhSachMaNCC"`
}

// Input is the create/update form. The image is a URL kept by the backend.
type Input struct {
	Name        string           `json:"tenSP" validate:"required,max=150"`
	CategoryID  int64            `json:"maLoai" validate:"required,gt=0"`
	Unit        string           `json:"donViTinh" validate:"required,max=30"`
	Price       *decimal.Decimal `json:"giaNhap" validate:"required"`
	MinStock    *int64           `json:"mucTonToiThieu" validate:"required,gte=0"`
	MaxStock    *int64           `json:"mucTonToiDa" validate:"required,gte=0"`
	Image       string           `json:"hinhAnh,omitempty" validate:"omitempty,max=500"`
	SupplierIDs []int64          `json:"danhSachMaNCC" validate:"required,min=1"`
}

// Filter narrows the product list by name, category and supplier.
type Filter struct {
	Name       string `json:"tenSP"`
	CategoryID int64  `json:"maLoai"`
	SupplierID int64  `json:"maNCC"`
}

// IsEmpty reports whether no criterion is set.
func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.Name) == "" && f.CategoryID == 0 && f.SupplierID == 0
}

// Match reports whether p satisfies every set criterion. Names match
// ignoring case and diacritics.
func (f Filter) Match(p Product) bool {
	if name := strings.TrimSpace(f.Name); name != "" && !md.Contains(p.Name, name) {
		return false
	}
	if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
		return false
	}
	if f.SupplierID != 0 && !slices.Contains(p.SupplierIDs, f.SupplierID) {
		return false
	}
	return true
}
