package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/stu-kho/kho-console/internal/listing"
	md "github.com/stu-kho/kho-console/internal/masterdata/shared"
)

var messages = map[string]string{
	"tenKH.required":  "Vui lòng nhập Tên",
	"tenKH.max":       "Tên khách hàng tối đa 150 ký tự",
	"sdt.required":    "Vui lòng nhập SĐT",
	"sdt.max":         "Số điện thoại không hợp lệ",
	"email":           "Email không hợp lệ",
	"diaChi.required": "Vui lòng nhập Địa Chỉ",
	"diaChi.max":      "Địa chỉ tối đa 255 ký tự",
}

// check validates the form, then rejects a name and phone pair already used
// by another active customer of the loaded list.
func check(v *validator.Validate) func(context.Context, listing.Snapshot[Customer], Input, int64) error {
	return func(_ context.Context, snap listing.Snapshot[Customer], in Input, id int64) error {
		if err := listing.Struct(v, in, messages); err != nil {
			return err
		}
		if snap.TrashMode {
			return nil
		}
		if Duplicate(snap.Rows, in, id) {
			return listing.Invalid("tenKH", fmt.Sprintf("Khách hàng %q - SĐT %q đã tồn tại!", in.Name, in.Phone))
		}
		return nil
	}
}

// Duplicate reports whether rows hold a customer other than id with the same
// name (case-insensitive) and phone.
func Duplicate(rows []Customer, in Input, id int64) bool {
	name := md.Fold(in.Name)
	phone := strings.TrimSpace(in.Phone)
	for _, c := range rows {
		if id != 0 && c.ID == id {
			continue
		}
		if md.Fold(c.Name) == name && strings.TrimSpace(c.Phone) == phone {
			return true
		}
	}
	return false
}
