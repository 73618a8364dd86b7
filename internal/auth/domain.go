package auth

import "errors"

// ErrTokenExpired is returned for a backend token past its exp claim.
var ErrTokenExpired = errors.New("auth: backend token expired")

// ErrTokenMissing is returned when a session identity carries no token.
var ErrTokenMissing = errors.New("auth: backend token missing")

// Credentials is the login form.
type Credentials struct {
	Username string `json:"tenDangNhap" validate:"required,max=50"`
	Password string `json:"matKhau" validate:"required,max=100"`
}

// Login is an accepted login: the backend user payload, kept verbatim in
// the session, and the bearer token for later backend calls.
type Login struct {
	UserInfo []byte
	Token    string
}
