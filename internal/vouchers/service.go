package vouchers

import (
	"context"

	"github.com/stu-kho/kho-console/internal/listing"
	"github.com/stu-kho/kho-console/internal/masterdata/warehouses"
	"github.com/stu-kho/kho-console/internal/rbac"
)

func newestFirst[T Record](a, b T) int {
	return b.Created().Compare(a.Created())
}

func newConfig[T Record, I any](entity string, src listing.Source[T, Filter, I], pol Policy, auditor listing.Auditor, pageSize int, loadFail string) listing.Config[T, Filter, I] {
	return listing.Config[T, Filter, I]{
		Entity:   entity,
		Source:   src,
		Strategy: listing.ClientPaged,
		Perms:    pol.Perms.CRUD,
		PageSize: pageSize,
		ID:       func(v T) int64 { return v.VoucherID() },
		Sort:     newestFirst[T],
		Editable: func(p rbac.Principal, v T) error { return pol.CanEdit(p, v) },
		RowActions: func(p rbac.Principal, v T, _ bool) []listing.Action {
			return pol.Actions(p, v)
		},
		CheckFilter: Filter.Check,
		NoTrash:     true,
		Messages: listing.Messages{
			Deleted:  "Đã xóa!",
			LoadFail: loadFail,
		},
		Auditor: auditor,
	}
}

// NewImportConfig describes the import voucher list.
func NewImportConfig(src listing.Source[Import, Filter, ImportInput], pol Policy, auditor listing.Auditor, pageSize int) listing.Config[Import, Filter, ImportInput] {
	cfg := newConfig("imports", src, pol, auditor, pageSize, "Không thể tải danh sách!")
	cfg.Check = importCheck(listing.NewValidator())
	return cfg
}

// NewExportConfig describes the export voucher list. Quantities are checked
// against the stock of the issuing warehouse.
func NewExportConfig(src listing.Source[Export, Filter, ExportInput], stock warehouses.StockReader, pol Policy, auditor listing.Auditor, pageSize int) listing.Config[Export, Filter, ExportInput] {
	cfg := newConfig("exports", src, pol, auditor, pageSize, "Không thể tải danh sách!")
	cfg.Check = exportCheck(listing.NewValidator(), stock, getter(src))
	return cfg
}

// NewTransferConfig describes the transfer list. Quantities are checked
// against the stock of the source warehouse.
func NewTransferConfig(src listing.Source[Transfer, Filter, TransferInput], stock warehouses.StockReader, pol Policy, auditor listing.Auditor, pageSize int) listing.Config[Transfer, Filter, TransferInput] {
	cfg := newConfig("transfers", src, pol, auditor, pageSize, "Không thể tải danh sách phiếu điều chuyển!")
	cfg.Check = transferCheck(listing.NewValidator(), stock, getter(src))
	return cfg
}

func getter[T Record, I any](src listing.Source[T, Filter, I]) func(context.Context, int64) (T, error) {
	return src.Get
}
