package vouchers

import (
	"github.com/stu-kho/kho-console/internal/backend"
	"github.com/stu-kho/kho-console/internal/listing"
)

// Backend collections of the voucher kinds.
const (
	ImportPath   = "/phieunhap"
	ExportPath   = "/phieuxuat"
	TransferPath = "/dieuchuyen"
)

// The filter endpoints answer with the whole matching list.
func filterQuery[T Record](keys ...string) listing.QueryFunc[T, Filter] {
	return listing.FilterQuery[T](listing.ClientPaged, func(f Filter, page, size int) any {
		return f.payload(page, size, keys...)
	})
}

// NewImportRepository binds the import vouchers to client.
func NewImportRepository(client *backend.Client) *listing.ResourceSource[Import, Filter, ImportInput] {
	return listing.NewResourceSource[Import, Filter, ImportInput](
		backend.NewResource[Import](client, ImportPath),
		filterQuery[Import]("maKho", "maNCC"),
	)
}

// NewExportRepository binds the export vouchers to client.
func NewExportRepository(client *backend.Client) *listing.ResourceSource[Export, Filter, ExportInput] {
	return listing.NewResourceSource[Export, Filter, ExportInput](
		backend.NewResource[Export](client, ExportPath),
		filterQuery[Export]("maKho", "maKH"),
	)
}

// NewTransferRepository binds the transfers to client.
func NewTransferRepository(client *backend.Client) *listing.ResourceSource[Transfer, Filter, TransferInput] {
	return listing.NewResourceSource[Transfer, Filter, TransferInput](
		backend.NewResource[Transfer](client, TransferPath),
		filterQuery[Transfer]("maKhoXuat", "maKhoNhap"),
	)
}
