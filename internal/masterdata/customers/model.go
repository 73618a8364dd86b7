package customers

// Customer is a customer record of the backend (/khachhang).
type Customer struct {
	ID      int64  `json:"maKH"`
	Name    string `json:"tenKH"`
	Phone   string `json:"sdt"`
	Email   string `json:"email,omitempty"`
	Address string `json:"diaChi"`
}

// Input is the create/update form.
type Input struct {
	Name    string `json:"tenKH" validate:"required,max=150"`
	Phone   string `json:"sdt" validate:"required,max=20"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"diaChi" validate:"required,max=255"`
}
