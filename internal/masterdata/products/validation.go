package products

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/stu-kho/kho-console/internal/listing"
)

var messages = map[string]string{
	"tenSP.required":          "Vui lòng nhập tên!",
	"tenSP.max":               "Tên sản phẩm tối đa 150 ký tự",
	"maLoai":                  "Chọn loại hàng!",
	"donViTinh.required":      "Nhập ĐVT!",
	"donViTinh.max":           "Đơn vị tính tối đa 30 ký tự",
	"giaNhap":                 "Nhập giá!",
	"mucTonToiThieu.required": "Nhập mức tồn tối thiểu",
	"mucTonToiThieu.gte":      "Mức tồn tối thiểu không được âm",
	"mucTonToiDa.required":    "Nhập mức tồn tối đa",
	"mucTonToiDa.gte":         "Mức tồn tối đa không được âm",
	"hinhAnh":                 "Đường dẫn ảnh quá dài",
	"danhSachMaNCC":           "Chọn ít nhất 1 NCC!",
}

func check(v *validator.Validate) func(context.Context, listing.Snapshot[Product], Input, int64) error {
	return func(_ context.Context, _ listing.Snapshot[Product], in Input, _ int64) error {
		if err := listing.Struct(v, in, messages); err != nil {
			return err
		}
		if in.Price.IsNegative() {
			return listing.Invalid("giaNhap", "Giá nhập không được âm")
		}
		if *in.MaxStock < *in.MinStock {
			return listing.Invalid("mucTonToiDa", "Mức tồn tối đa phải lớn hơn hoặc bằng mức tồn tối thiểu")
		}
		return nil
	}
}
