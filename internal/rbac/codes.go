package rbac

// PermissionID is a numeric permission code granted by the backend.
type PermissionID int

// None means the route only requires an authenticated session.
const None PermissionID = 0

// Dashboard, users, reports and system log.
const (
	DashboardView PermissionID = 130
	UsersView     PermissionID = 14
	ReportsView   PermissionID = 30
	ReportStock   PermissionID = 103
	ReportHistory PermissionID = 101
	ReportNXT     PermissionID = 131
	SystemLogView PermissionID = 100
)

// Categories.
const (
	CategoryView   PermissionID = 140
	CategoryCreate PermissionID = 141
	CategoryEdit   PermissionID = 142
	CategoryDelete PermissionID = 143
)

// Products. Viewing the catalog only needs a session.
const (
	ProductCreate PermissionID = 50
	ProductEdit   PermissionID = 51
	ProductDelete PermissionID = 52
)

// Suppliers.
const (
	SupplierView   PermissionID = 60
	SupplierCreate PermissionID = 61
	SupplierEdit   PermissionID = 62
	SupplierDelete PermissionID = 63
)

// Warehouses.
const (
	WarehouseView   PermissionID = 70
	WarehouseCreate PermissionID = 71
	WarehouseEdit   PermissionID = 72
	WarehouseDelete PermissionID = 73
)

// Customers.
const (
	CustomerView   PermissionID = 90
	CustomerCreate PermissionID = 91
	CustomerEdit   PermissionID = 92
	CustomerDelete PermissionID = 93
)

// Import vouchers.
const (
	ImportView         PermissionID = 26
	ImportCreate       PermissionID = 20
	ImportEdit         PermissionID = 21
	ImportDelete       PermissionID = 22
	ImportApprove      PermissionID = 40
	ImportCancel       PermissionID = 41
	ImportEditApproved PermissionID = 120
)

// Export vouchers.
const (
	ExportView         PermissionID = 27
	ExportCreate       PermissionID = 23
	ExportEdit         PermissionID = 24
	ExportDelete       PermissionID = 25
	ExportApprove      PermissionID = 42
	ExportCancel       PermissionID = 43
	ExportEditApproved PermissionID = 121
)

// Stock transfers.
const (
	TransferView         PermissionID = 110
	TransferCreate       PermissionID = 111
	TransferApprove      PermissionID = 112
	TransferCancel       PermissionID = 113
	TransferEdit         PermissionID = 114
	TransferDelete       PermissionID = 115
	TransferEditApproved PermissionID = 116
)

// CRUD groups the codes of a soft-deletable master data entity.
type CRUD struct {
	View   PermissionID
	Create PermissionID
	Edit   PermissionID
	Delete PermissionID
}

// Workflow groups the codes of an approvable voucher entity.
type Workflow struct {
	CRUD
	Approve      PermissionID
	Cancel       PermissionID
	EditApproved PermissionID
}

// Permission sets per entity.
var (
	Categories = CRUD{CategoryView, CategoryCreate, CategoryEdit, CategoryDelete}
	Products   = CRUD{None, ProductCreate, ProductEdit, ProductDelete}
	Suppliers  = CRUD{SupplierView, SupplierCreate, SupplierEdit, SupplierDelete}
	Warehouses = CRUD{WarehouseView, WarehouseCreate, WarehouseEdit, WarehouseDelete}
	Customers  = CRUD{CustomerView, CustomerCreate, CustomerEdit, CustomerDelete}

	Imports = Workflow{
		CRUD:         CRUD{ImportView, ImportCreate, ImportEdit, ImportDelete},
		Approve:      ImportApprove,
		Cancel:       ImportCancel,
		EditApproved: ImportEditApproved,
	}
	Exports = Workflow{
		CRUD:         CRUD{ExportView, ExportCreate, ExportEdit, ExportDelete},
		Approve:      ExportApprove,
		Cancel:       ExportCancel,
		EditApproved: ExportEditApproved,
	}
	Transfers = Workflow{
		CRUD:         CRUD{TransferView, TransferCreate, TransferEdit, TransferDelete},
		Approve:      TransferApprove,
		Cancel:       TransferCancel,
		EditApproved: TransferEditApproved,
	}
)
