package suppliers

import (
	"github.com/stu-kho/kho-console/internal/backend"
	"github.com/stu-kho/kho-console/internal/listing"
	md "github.com/stu-kho/kho-console/internal/masterdata/shared"
)

// BasePath is the backend collection of suppliers.
const BasePath = "/nhacungcap"

// Repository is the backend collection behind the supplier list.
type Repository = listing.ResourceSource[Supplier, md.KeywordFilter, Input]

// NewRepository binds the supplier collection to client. Keyword filters go
// to the search endpoint.
func NewRepository(client *backend.Client) *Repository {
	return listing.NewResourceSource[Supplier, md.KeywordFilter, Input](
		backend.NewResource[Supplier](client, BasePath),
		listing.SearchQuery[Supplier, md.KeywordFilter](),
	)
}
