package suppliers

// Supplier is a supplier record of the backend (/nhacungcap).
type Supplier struct {
	ID      int64  `json:"maNCC"`
	Name    string `json:"tenNCC"`
	Contact string `json:"nguoiLienHe,omitempty"`
	Phone   string `json:"sdt"`
	Email   string `json:"email,omitempty"`
	Address string `json:"diaChi,omitempty"`
}

// Input is the create/update form.
type Input struct {
	Name    string `json:"tenNCC" validate:"required,max=150"`
	Contact string `json:"nguoiLienHe" validate:"max=100"`
	Phone   string `json:"sdt" validate:"required,max=20"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"diaChi" validate:"max=255"`
}
