package rbac

// NavItem is one entry of the console menu.
type NavItem struct {
	Path  string       `json:"path"`
	Label string       `json:"label"`
	Perm  PermissionID `json:"perm,omitempty"`
}

// Routes lists every guarded console area with the code it requires.
var Routes = []NavItem{
	{Path: "/dashboard", Label: "Tổng quan", Perm: DashboardView},
	{Path: "/masterdata/products", Label: "Sản phẩm", Perm: None},
	{Path: "/masterdata/categories", Label: "Loại hàng", Perm: CategoryView},
	{Path: "/masterdata/warehouses", Label: "Kho", Perm: WarehouseView},
	{Path: "/masterdata/suppliers", Label: "Nhà cung cấp", Perm: SupplierView},
	{Path: "/masterdata/customers", Label: "Khách hàng", Perm: CustomerView},
	{Path: "/vouchers/imports", Label: "Nhập kho", Perm: ImportView},
	{Path: "/vouchers/exports", Label: "Xuất kho", Perm: ExportView},
	{Path: "/vouchers/transfers", Label: "Điều chuyển", Perm: TransferView},
	{Path: "/reports", Label: "Báo cáo", Perm: ReportsView},
	{Path: "/users", Label: "Người dùng", Perm: UsersView},
	{Path: "/system-log", Label: "Nhật ký hệ thống", Perm: SystemLogView},
	{Path: "/me", Label: "Hồ sơ", Perm: None},
}

// Menu returns the routes principal may open.
func Menu(p Principal) []NavItem {
	if !p.Authenticated() {
		return nil
	}
	items := make([]NavItem, 0, len(Routes))
	for _, item := range Routes {
		if Has(p, item.Perm) {
			items = append(items, item)
		}
	}
	return items
}
