// Package listing implements the list workflow shared by every console
// entity: trash mode, filtering, pagination, create/update, soft delete and
// restore, with the row actions the current principal may use.
package listing

import (
	"context"
	"errors"

	"github.com/stu-kho/kho-console/internal/rbac"
	"github.com/stu-kho/kho-console/internal/shared"
)

// ErrStale is returned by a load whose response was superseded by a newer one.
var ErrStale = errors.New("listing: superseded by a newer request")

// Criteria is an entity-specific filter.
type Criteria interface {
	IsEmpty() bool
}

// NoFilter is the criteria of entities without a query endpoint.
type NoFilter struct{}

// IsEmpty implements Criteria.
func (NoFilter) IsEmpty() bool { return true }

// Strategy states how the query endpoint of an entity pages its results.
type Strategy int

const (
	// ClientPaged endpoints return the whole result; the controller slices it.
	ClientPaged Strategy = iota
	// ServerPaged endpoints take page/size and report totalElements.
	ServerPaged
)

// Page is one page of a server-paginated query.
type Page[T any] struct {
	Rows  []T
	Total int
}

// ModalKind names the dialog currently open on a list.
type ModalKind string

const (
	ModalNone          ModalKind = "none"
	ModalCreate        ModalKind = "create"
	ModalEdit          ModalKind = "edit"
	ModalDeleteConfirm ModalKind = "delete-confirm"
	ModalDetail        ModalKind = "detail"
)

// Modal is the open dialog and the record it targets.
type Modal struct {
	Kind ModalKind `json:"kind"`
	ID   int64     `json:"id,omitempty"`
}

// State is the list view state of one entity.
type State[T any, F Criteria] struct {
	Rows       []T               `json:"rows"`
	Loading    bool              `json:"loading"`
	TrashMode  bool              `json:"trashMode"`
	Filter     F                 `json:"filter"`
	Pagination shared.Pagination `json:"pagination"`
	Modal      Modal             `json:"modal"`
}

// Persisted is the part of State kept in the session between requests.
type Persisted[F Criteria] struct {
	TrashMode bool `json:"trashMode"`
	Filter    F    `json:"filter"`
	Current   int  `json:"current"`
	PageSize  int  `json:"pageSize"`
}

// Snapshot is what local validation sees: the dataset of the last load.
type Snapshot[T any] struct {
	Rows      []T
	TrashMode bool
}

// Source is the backend collection behind a list.
type Source[T any, F Criteria, I any] interface {
	List(ctx context.Context) ([]T, error)
	Trash(ctx context.Context) ([]T, error)
	Query(ctx context.Context, filter F, page, size int) (Page[T], error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, input I) error
	Update(ctx context.Context, id int64, input I) error
	Delete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
}

// Auditor records successful mutations.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Action is a control offered on a row or on the list.
type Action string

const (
	ActionView    Action = "view"
	ActionPrint   Action = "print"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
	ActionRestore Action = "restore"
	ActionApprove Action = "approve"
	ActionCancel  Action = "cancel"
)

// Toolbar lists the list-level controls.
type Toolbar struct {
	Create bool `json:"create"`
	Trash  bool `json:"trash"`
}

// Messages are the notices of one entity.
type Messages struct {
	Created  string
	Updated  string
	Deleted  string
	Restored string
	LoadFail string
}

func (m Messages) withDefaults() Messages {
	if m.Created == "" {
		m.Created = "Tạo mới thành công!"
	}
	if m.Updated == "" {
		m.Updated = "Cập nhật thành công!"
	}
	if m.Deleted == "" {
		m.Deleted = "Đã chuyển vào thùng rác!"
	}
	if m.Restored == "" {
		m.Restored = "Đã khôi phục!"
	}
	if m.LoadFail == "" {
		m.LoadFail = "Không thể tải dữ liệu!"
	}
	return m
}

// Config instantiates the controller for one entity.
type Config[T any, F Criteria, I any] struct {
	// Entity names the list in logs, audit records and the session key.
	Entity   string
	Source   Source[T, F, I]
	Strategy Strategy
	Perms    rbac.CRUD
	PageSize int
	ID       func(T) int64

	// Sort orders the unfiltered active list.
	Sort func(a, b T) int
	// Check runs local validation before any backend call. id is 0 on create.
	Check func(ctx context.Context, snap Snapshot[T], input I, id int64) error
	// Editable rejects opening or saving an edit of rec.
	Editable func(p rbac.Principal, rec T) error
	// RowActions overrides the default CRUD row actions.
	RowActions func(p rbac.Principal, rec T, trash bool) []Action
	// DuplicateMessage replaces a backend uniqueness error.
	DuplicateMessage func(input I) string
	// CheckFilter rejects criteria before they are queried.
	CheckFilter func(filter F) error
	// NoTrash marks collections without a trash endpoint.
	NoTrash bool

	Messages Messages
	Auditor  Auditor
}

// CRUDActions is the default row action rule: restore in trash, edit and
// delete otherwise, each behind its permission.
func CRUDActions[T any](perms rbac.CRUD) func(p rbac.Principal, rec T, trash bool) []Action {
	return func(p rbac.Principal, _ T, trash bool) []Action {
		var actions []Action
		if trash {
			if rbac.Has(p, perms.Delete) {
				actions = append(actions, ActionRestore)
			}
			return actions
		}
		if rbac.Has(p, perms.Edit) {
			actions = append(actions, ActionEdit)
		}
		if rbac.Has(p, perms.Delete) {
			actions = append(actions, ActionDelete)
		}
		return actions
	}
}
