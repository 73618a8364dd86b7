package users

// User is an account of the backend user directory (/nguoidung).
type User struct {
	ID       int64  `json:"maNguoiDung"`
	FullName string `json:"hoTen"`
	Username string `json:"tenDangNhap,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"sdt,omitempty"`
	Role     string `json:"tenVaiTro,omitempty"`
}
