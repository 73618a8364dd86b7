package categories

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/stu-kho/kho-console/internal/listing"
)

var messages = map[string]string{
	"tenLoai.required": "Vui lòng nhập tên loại hàng!",
	"tenLoai.max":      "Tên loại hàng tối đa 100 ký tự",
	"moTa":             "Mô tả tối đa 255 ký tự",
}

func check(v *validator.Validate) func(context.Context, listing.Snapshot[Category], Input, int64) error {
	return func(_ context.Context, _ listing.Snapshot[Category], in Input, _ int64) error {
		return listing.Struct(v, in, messages)
	}
}
