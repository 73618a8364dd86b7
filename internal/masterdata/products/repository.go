package products

import (
	"github.com/stu-kho/kho-console/internal/backend"
	"github.com/stu-kho/kho-console/internal/listing"
)

// BasePath is the backend collection of products.
const BasePath = "/sanpham"

// Repository is the backend collection behind the product list.
type Repository = listing.ResourceSource[Product, Filter, Input]

// NewRepository binds the product collection to client. The backend has no
// product query endpoint; filters run over the full active list.
func NewRepository(client *backend.Client) *Repository {
	return listing.NewResourceSource[Product, Filter, Input](
		backend.NewResource[Product](client, BasePath),
		listing.LocalQuery(Filter.Match),
	)
}
