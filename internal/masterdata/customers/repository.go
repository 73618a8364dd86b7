package customers

import (
	"github.com/stu-kho/kho-console/internal/backend"
	"github.com/stu-kho/kho-console/internal/listing"
	md "github.com/stu-kho/kho-console/internal/masterdata/shared"
)

// BasePath is the backend collection of customers.
const BasePath = "/khachhang"

// Repository is the backend collection behind the customer list.
type Repository = listing.ResourceSource[Customer, md.KeywordFilter, Input]

// NewRepository binds the customer collection to client.
func NewRepository(client *backend.Client) *Repository {
	return listing.NewResourceSource[Customer, md.KeywordFilter, Input](
		backend.NewResource[Customer](client, BasePath),
		listing.SearchQuery[Customer, md.KeywordFilter](),
	)
}
