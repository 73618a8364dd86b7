package suppliers

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/stu-kho/kho-console/internal/listing"
)

var messages = map[string]string{
	"tenNCC.required": "Nhập tên nhà cung cấp",
	"tenNCC.max":      "Tên nhà cung cấp tối đa 150 ký tự",
	"sdt.required":    "Nhập số điện thoại",
	"sdt.max":         "Số điện thoại không hợp lệ",
	"email":           "Email không hợp lệ",
	"nguoiLienHe":     "Tên người liên hệ tối đa 100 ký tự",
	"diaChi":          "Địa chỉ tối đa 255 ký tự",
}

func check(v *validator.Validate) func(context.Context, listing.Snapshot[Supplier], Input, int64) error {
	return func(_ context.Context, _ listing.Snapshot[Supplier], in Input, _ int64) error {
		return listing.Struct(v, in, messages)
	}
}
