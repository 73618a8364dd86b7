// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// statusCoder is implemented by errors that already know their HTTP status,
// such as failures relayed from the warehouse backend.
type statusCoder interface {
	StatusCode() int
}

type userMessager interface {
	UserMessage() string
}

// RespondError maps domain errors to HTTP responses using RFC7807. Errors
// carrying a user message expose it as the problem detail.
func RespondError(w http.ResponseWriter, err error) {
	detail := ""
	var um userMessager
	if errors.As(err, &um) {
		detail = um.UserMessage()
	}
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", orDefault(detail, err.Error()))
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", orDefault(detail, err.Error()))
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusUnprocessableEntity, "Validation Failed", orDefault(detail, err.Error()))
	case errors.Is(err, ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", orDefault(detail, err.Error()))
	case errors.Is(err, ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", orDefault(detail, err.Error()))
	default:
		var sc statusCoder
		if errors.As(err, &sc) && sc.StatusCode() >= 400 && sc.StatusCode() < 500 {
			Problem(w, sc.StatusCode(), http.StatusText(sc.StatusCode()), detail)
			return
		}
		if errors.As(err, &sc) {
			Problem(w, http.StatusBadGateway, "Backend Error", detail)
			return
		}
		Problem(w, http.StatusInternalServerError, "Internal Error", detail)
	}
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
