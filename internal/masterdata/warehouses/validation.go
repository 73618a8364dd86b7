package warehouses

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/stu-kho/kho-console/internal/listing"
)

var messages = map[string]string{
	"tenKho.required": "Nhập tên kho",
	"tenKho.max":      "Tên kho tối đa 100 ký tự",
	"diaChi.required": "Nhập địa chỉ",
	"diaChi.max":      "Địa chỉ tối đa 255 ký tự",
	"ghiChu":          "Ghi chú tối đa 255 ký tự",
}

func check(v *validator.Validate) func(context.Context, listing.Snapshot[Warehouse], Input, int64) error {
	return func(_ context.Context, _ listing.Snapshot[Warehouse], in Input, _ int64) error {
		return listing.Struct(v, in, messages)
	}
}
