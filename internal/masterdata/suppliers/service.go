package suppliers

import (
	"github.com/stu-kho/kho-console/internal/listing"
	md "github.com/stu-kho/kho-console/internal/masterdata/shared"
	"github.com/stu-kho/kho-console/internal/rbac"
)

// NewConfig describes the supplier list.
func NewConfig(repo listing.Source[Supplier, md.KeywordFilter, Input], auditor listing.Auditor, pageSize int) listing.Config[Supplier, md.KeywordFilter, Input] {
	return listing.Config[Supplier, md.KeywordFilter, Input]{
		Entity:   "suppliers",
		Source:   repo,
		Strategy: listing.ClientPaged,
		Perms:    rbac.Suppliers,
		PageSize: pageSize,
		ID:       func(s Supplier) int64 { return s.ID },
		Check:    check(listing.NewValidator()),
		Messages: listing.Messages{
			Restored: "Khôi phục thành công!",
			LoadFail: "Không thể tải danh sách!",
		},
		Auditor: auditor,
	}
}
