package categories

// Category is a product category as stored by the backend (/loaihang).
type Category struct {
	ID          int64  `json:"maLoai"`
	Name        string `json:"tenLoai"`
	Description string `json:"moTa,omitempty"`
}

// Input is the create/update form.
type Input struct {
	Name        string `json:"tenLoai" validate:"required,max=100"`
	Description string `json:"moTa" validate:"max=255"`
}
