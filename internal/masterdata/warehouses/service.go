package warehouses

import (
	"github.com/stu-kho/kho-console/internal/listing"
	md "github.com/stu-kho/kho-console/internal/masterdata/shared"
	"github.com/stu-kho/kho-console/internal/rbac"
)

// NewConfig describes the warehouse list. Active rows also offer the stock
// view.
func NewConfig(repo listing.Source[Warehouse, md.KeywordFilter, Input], auditor listing.Auditor, pageSize int) listing.Config[Warehouse, md.KeywordFilter, Input] {
	crud := listing.CRUDActions[Warehouse](rbac.Warehouses)
	return listing.Config[Warehouse, md.KeywordFilter, Input]{
		Entity:   "warehouses",
		Source:   repo,
		Strategy: listing.ClientPaged,
		Perms:    rbac.Warehouses,
		PageSize: pageSize,
		ID:       func(w Warehouse) int64 { return w.ID },
		Check:    check(listing.NewValidator()),
		RowActions: func(p rbac.Principal, w Warehouse, trash bool) []listing.Action {
			if trash {
				return crud(p, w, trash)
			}
			return append([]listing.Action{listing.ActionView}, crud(p, w, trash)...)
		},
		DuplicateMessage: func(in Input) string {
			return `Tên kho hàng "` + in.Name + `" đã tồn tại! Vui lòng chọn tên khác.`
		},
		Messages: listing.Messages{
			Created:  "Tạo kho mới thành công!",
			Updated:  "Cập nhật kho thành công!",
			Restored: "Đã khôi phục kho!",
		},
		Auditor: auditor,
	}
}
