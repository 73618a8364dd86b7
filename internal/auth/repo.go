package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/stu-kho/kho-console/internal/backend"
	"github.com/stu-kho/kho-console/internal/shared"
)

// LoginPath is the backend login endpoint.
const LoginPath = "/auth/login"

// Repository forwards credentials to the backend.
type Repository interface {
	Login(ctx context.Context, creds Credentials) ([]byte, error)
}

// BackendRepository implements Repository over the REST backend.
type BackendRepository struct {
	client *backend.Client
}

// NewRepository constructs a BackendRepository.
func NewRepository(client *backend.Client) *BackendRepository {
	return &BackendRepository{client: client}
}

// Login posts creds and returns the raw response body. Rejections by the
// backend map to shared.ErrInvalidCredentials.
func (r *BackendRepository) Login(ctx context.Context, creds Credentials) ([]byte, error) {
	data, err := r.client.Raw(ctx, http.MethodPost, LoginPath, nil, creds)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusForbidden) {
			return nil, fmt.Errorf("%w: %s", shared.ErrInvalidCredentials, apiErr.Message)
		}
		return nil, err
	}
	return data, nil
}
