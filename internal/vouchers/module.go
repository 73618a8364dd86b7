package vouchers

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stu-kho/kho-console/internal/backend"
	"github.com/stu-kho/kho-console/internal/listing"
	"github.com/stu-kho/kho-console/internal/masterdata/warehouses"
	"github.com/stu-kho/kho-console/internal/rbac"
)

// Options configure the voucher lists.
type Options struct {
	PageSize   int
	EditWindow time.Duration
	Idle       time.Duration
}

// Module mounts the three voucher lists.
type Module struct {
	guard     *rbac.Guard
	imports   *Handler[Import, ImportInput]
	exports   *Handler[Export, ExportInput]
	transfers *Handler[Transfer, TransferInput]
}

// NewModule wires the voucher lists to the backend client.
func NewModule(logger *slog.Logger, client *backend.Client, auditor listing.Auditor, guard *rbac.Guard, opts Options) *Module {
	stock := warehouses.NewRepository(client)
	lookups := NewLookupLoader(client, logger)

	importPol := NewPolicy(rbac.Imports, opts.EditWindow)
	importRepo := NewImportRepository(client)
	exportPol := NewPolicy(rbac.Exports, opts.EditWindow)
	exportRepo := NewExportRepository(client)
	transferPol := NewPolicy(rbac.Transfers, opts.EditWindow)
	transferRepo := NewTransferRepository(client)

	return &Module{
		guard: guard,
		imports: NewHandler(logger,
			NewImportConfig(importRepo, importPol, auditor, opts.PageSize),
			importRepo.Resource(), importPol, lookups,
			Kind{PrintPrefix: "PhieuNhap", Partner: SupplierPartner}, opts.Idle),
		exports: NewHandler(logger,
			NewExportConfig(exportRepo, stock, exportPol, auditor, opts.PageSize),
			exportRepo.Resource(), exportPol, lookups,
			Kind{PrintPrefix: "PhieuXuat", Partner: CustomerPartner}, opts.Idle),
		transfers: NewHandler(logger,
			NewTransferConfig(transferRepo, stock, transferPol, auditor, opts.PageSize),
			transferRepo.Resource(), transferPol, lookups,
			Kind{PrintPrefix: "PhieuDieuChuyen", Partner: NoPartner}, opts.Idle),
	}
}

// MountRoutes registers the lists under their view permissions.
func (m *Module) MountRoutes(r chi.Router) {
	r.Route("/imports", func(r chi.Router) {
		r.Use(m.guard.Require(rbac.Imports.View))
		m.imports.MountRoutes(r)
	})
	r.Route("/exports", func(r chi.Router) {
		r.Use(m.guard.Require(rbac.Exports.View))
		m.exports.MountRoutes(r)
	})
	r.Route("/transfers", func(r chi.Router) {
		r.Use(m.guard.Require(rbac.Transfers.View))
		m.transfers.MountRoutes(r)
	})
}

// Forget drops every voucher list controller of a session.
func (m *Module) Forget(sessionID string) {
	m.imports.Forget(sessionID)
	m.exports.Forget(sessionID)
	m.transfers.Forget(sessionID)
}
