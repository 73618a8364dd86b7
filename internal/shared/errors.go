package shared

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials is returned when the backend refuses a login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// userMessager is implemented by errors that carry text safe to show as-is.
type userMessager interface {
	UserMessage() string
}

// UserSafeMessage converts err into text suitable for a notice. Errors that
// carry their own user message (backend messages, local validation) are shown
// verbatim; anything else collapses to a generic message.
func UserSafeMessage(err error) string {
	if err == nil {
		return ""
	}
	var um userMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Máy chủ phản hồi quá lâu, vui lòng thử lại."
	}
	return "Có lỗi xảy ra!"
}
