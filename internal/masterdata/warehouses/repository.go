package warehouses

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/stu-kho/kho-console/internal/backend"
	"github.com/stu-kho/kho-console/internal/listing"
	md "github.com/stu-kho/kho-console/internal/masterdata/shared"
)

// BasePath is the backend collection of warehouses.
const BasePath = "/kho"

// Repository is the warehouse collection plus its stock endpoint.
type Repository struct {
	*listing.ResourceSource[Warehouse, md.KeywordFilter, Input]
	client *backend.Client
}

// NewRepository binds the warehouse collection to client. The backend has
// no search endpoint; keywords are matched against name and address locally.
func NewRepository(client *backend.Client) *Repository {
	return &Repository{
		ResourceSource: listing.NewResourceSource[Warehouse, md.KeywordFilter, Input](
			backend.NewResource[Warehouse](client, BasePath),
			listing.LocalQuery(matches),
		),
		client: client,
	}
}

// Stock returns the lots held in warehouse id.
func (r *Repository) Stock(ctx context.Context, id int64) (Stock, error) {
	data, err := r.client.Raw(ctx, http.MethodGet, BasePath+"/"+strconv.FormatInt(id, 10)+"/tonkho", nil, nil)
	if err != nil {
		return nil, err
	}
	lots, err := backend.DecodeList[StockLot](data)
	if err != nil {
		return nil, fmt.Errorf("warehouses: decode stock of %d: %w", id, err)
	}
	return Stock(lots), nil
}

func matches(f md.KeywordFilter, w Warehouse) bool {
	kw := f.Keyword()
	return md.Contains(w.Name, kw) || md.Contains(w.Address, kw)
}
