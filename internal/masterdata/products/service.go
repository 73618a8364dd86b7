package products

import (
	"github.com/stu-kho/kho-console/internal/listing"
	"github.com/stu-kho/kho-console/internal/rbac"
)

// NewConfig describes the product list. The catalog is open to every
// signed-in user; changes need the product codes.
func NewConfig(repo listing.Source[Product, Filter, Input], auditor listing.Auditor, pageSize int) listing.Config[Product, Filter, Input] {
	return listing.Config[Product, Filter, Input]{
		Entity:   "products",
		Source:   repo,
		Strategy: listing.ClientPaged,
		Perms:    rbac.Products,
		PageSize: pageSize,
		ID:       func(p Product) int64 { return p.ID },
		Check:    check(listing.NewValidator()),
		Messages: listing.Messages{Restored: "Đã khôi phục sản phẩm!"},
		Auditor:  auditor,
	}
}
