package customers

import (
	"github.com/stu-kho/kho-console/internal/listing"
	md "github.com/stu-kho/kho-console/internal/masterdata/shared"
	"github.com/stu-kho/kho-console/internal/rbac"
)

// NewConfig describes the customer list.
func NewConfig(repo listing.Source[Customer, md.KeywordFilter, Input], auditor listing.Auditor, pageSize int) listing.Config[Customer, md.KeywordFilter, Input] {
	return listing.Config[Customer, md.KeywordFilter, Input]{
		Entity:   "customers",
		Source:   repo,
		Strategy: listing.ClientPaged,
		Perms:    rbac.Customers,
		PageSize: pageSize,
		ID:       func(c Customer) int64 { return c.ID },
		Check:    check(listing.NewValidator()),
		Messages: listing.Messages{
			Created:  "Thêm mới thành công!",
			Restored: "Khôi phục thành công!",
			LoadFail: "Không thể tải danh sách khách hàng!",
		},
		Auditor: auditor,
	}
}
