package users

import (
	"context"

	"github.com/stu-kho/kho-console/internal/backend"
)

// BasePath is the backend user directory.
const BasePath = "/nguoidung"

// Repository reads the user directory from the backend.
type Repository struct {
	res *backend.Resource[User]
}

// NewRepository constructs a repository.
func NewRepository(client *backend.Client) *Repository {
	return &Repository{res: backend.NewResource[User](client, BasePath)}
}

// ListUsers returns all users.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	return r.res.List(ctx)
}
