package categories

import (
	"github.com/stu-kho/kho-console/internal/backend"
	"github.com/stu-kho/kho-console/internal/listing"
)

// BasePath is the backend collection of categories.
const BasePath = "/loaihang"

// Repository is the backend collection behind the category list.
type Repository = listing.ResourceSource[Category, listing.NoFilter, Input]

// NewRepository binds the category collection to client.
func NewRepository(client *backend.Client) *Repository {
	return listing.NewResourceSource[Category, listing.NoFilter, Input](backend.NewResource[Category](client, BasePath), nil)
}
