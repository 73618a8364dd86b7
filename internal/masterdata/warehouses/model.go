package warehouses

// Warehouse is a warehouse record of the backend (/kho).
type Warehouse struct {
	ID      int64  `json:"maKho"`
	Name    string `json:"tenKho"`
	Address string `json:"diaChi"`
	Note    string `json:"ghiChu,omitempty"`
}

// Input is the create/update form.
type Input struct {
	Name    string `json:"tenKho" validate:"required,max=100"`
	Address string `json:"diaChi" validate:"required,max=255"`
	Note    string `json:"ghiChu" validate:"max=255"`
}

// StockLot is one lot of a product held in a warehouse.
type StockLot struct {
	ProductID   int64  `json:"maSP"`
	ProductName string `json:"tenSP"`
	Unit        string `json:"donViTinh,omitempty"`
	Lot         string `json:"soLo,omitempty"`
	Quantity    int64  `json:"soLuongTon"`
	ExpiresOn   string `json:"ngayHetHan,omitempty"`
}

// Stock is the stock of one warehouse.
type Stock []StockLot

// OnHand returns the quantity of productID available for issue. An empty lot
// sums every lot of the product.
func (s Stock) OnHand(productID int64, lot string) int64 {
	var total int64
	for _, l := range s {
		if l.ProductID != productID {
			continue
		}
		if lot == "" || l.Lot == lot {
			total += l.Quantity
		}
	}
	return total
}
