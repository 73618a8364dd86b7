package categories

import (
	"github.com/stu-kho/kho-console/internal/listing"
	"github.com/stu-kho/kho-console/internal/rbac"
)

// NewConfig describes the category list.
func NewConfig(repo listing.Source[Category, listing.NoFilter, Input], auditor listing.Auditor, pageSize int) listing.Config[Category, listing.NoFilter, Input] {
	return listing.Config[Category, listing.NoFilter, Input]{
		Entity:   "categories",
		Source:   repo,
		Strategy: listing.ClientPaged,
		Perms:    rbac.Categories,
		PageSize: pageSize,
		ID:       func(c Category) int64 { return c.ID },
		Check:    check(listing.NewValidator()),
		DuplicateMessage: func(in Input) string {
			return `Tên loại hàng "` + in.Name + `" đã tồn tại! Vui lòng chọn tên khác.`
		},
		Messages: listing.Messages{Restored: "Đã khôi phục loại hàng!"},
		Auditor:  auditor,
	}
}
