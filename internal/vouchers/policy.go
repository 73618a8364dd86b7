package vouchers

import (
	"fmt"
	"time"

	"github.com/stu-kho/kho-console/internal/listing"
	"github.com/stu-kho/kho-console/internal/rbac"
)

// DefaultEditWindow bounds how long after creation an approved voucher may
// still be edited.
const DefaultEditWindow = 30 * 24 * time.Hour

// Record is implemented by every voucher kind.
type Record interface {
	VoucherID() int64
	VoucherStatus() Status
	Created() time.Time
}

// Policy derives what a principal may do with a voucher.
type Policy struct {
	Perms  rbac.Workflow
	Window time.Duration
	Now    func() time.Time
}

// NewPolicy builds a policy for one voucher kind.
func NewPolicy(perms rbac.Workflow, window time.Duration) Policy {
	if window <= 0 {
		window = DefaultEditWindow
	}
	return Policy{Perms: perms, Window: window, Now: time.Now}
}

type deniedError struct {
	msg string
}

func (e *deniedError) Error() string       { return "vouchers: " + e.msg }
func (e *deniedError) UserMessage() string { return e.msg }
func (e *deniedError) Unwrap() error       { return rbac.ErrForbidden }

// CanEdit reports why rec may not be edited by p, or nil. Cancelled vouchers
// are never editable. Approved vouchers need the edit-after-approval code and
// must be younger than the edit window, admins included for the window.
func (pol Policy) CanEdit(p rbac.Principal, rec Record) error {
	switch rec.VoucherStatus() {
	case Cancelled:
		return listing.Invalid("trangThai", "Không thể sửa phiếu đã hủy.")
	case Approved:
		if age := pol.now().Sub(rec.Created()); age > pol.Window {
			days := int(age.Hours() / 24)
			return listing.Invalid("ngayLapPhieu", fmt.Sprintf("Quá hạn sửa (%d ngày).", days))
		}
		if !rbac.Has(p, pol.Perms.EditApproved) {
			return &deniedError{msg: fmt.Sprintf("Bạn không có quyền sửa phiếu đã duyệt (Cần quyền %d)!", pol.Perms.EditApproved)}
		}
		return nil
	case Pending:
		if !rbac.Has(p, pol.Perms.Edit) {
			return &deniedError{msg: "Bạn không có quyền sửa phiếu này."}
		}
		return nil
	default:
		return listing.Invalid("trangThai", "Trạng thái phiếu không hợp lệ.")
	}
}

// editable is the status and permission part of CanEdit, used to decide
// whether the edit action is offered at all.
func (pol Policy) editable(p rbac.Principal, rec Record) bool {
	switch rec.VoucherStatus() {
	case Pending:
		return rbac.Has(p, pol.Perms.Edit)
	case Approved:
		return rbac.Has(p, pol.Perms.EditApproved)
	default:
		return false
	}
}

// Actions lists the row actions of rec for p. View and print are always
// offered; delete, approve and cancel only while the voucher is pending.
func (pol Policy) Actions(p rbac.Principal, rec Record) []listing.Action {
	actions := []listing.Action{listing.ActionView, listing.ActionPrint}
	if pol.editable(p, rec) {
		actions = append(actions, listing.ActionEdit)
	}
	if rec.VoucherStatus() != Pending {
		return actions
	}
	if rbac.Has(p, pol.Perms.Delete) {
		actions = append(actions, listing.ActionDelete)
	}
	if rbac.Has(p, pol.Perms.Approve) {
		actions = append(actions, listing.ActionApprove)
	}
	if rbac.Has(p, pol.Perms.Cancel) {
		actions = append(actions, listing.ActionCancel)
	}
	return actions
}

// CanTransition rejects approving or cancelling a voucher that is no longer
// pending.
func (pol Policy) CanTransition(rec Record, action listing.Action) error {
	if rec.VoucherStatus() == Pending {
		return nil
	}
	if action == listing.ActionApprove {
		return listing.Invalid("trangThai", "Chỉ duyệt được phiếu đang chờ.")
	}
	return listing.Invalid("trangThai", "Chỉ hủy được phiếu đang chờ.")
}

func (pol Policy) now() time.Time {
	if pol.Now == nil {
		return time.Now()
	}
	return pol.Now()
}
