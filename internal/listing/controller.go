package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/stu-kho/kho-console/internal/platform/httpx"
	"github.com/stu-kho/kho-console/internal/rbac"
	"github.com/stu-kho/kho-console/internal/shared"
)

// Controller owns the list state of one entity for one session. Every load
// takes a new generation; a response is applied only while its generation is
// still the newest.
type Controller[T any, F Criteria, I any] struct {
	cfg    Config[T, F, I]
	logger *slog.Logger

	mu    sync.Mutex
	gen   uint64
	state State[T, F]
	// all is the full dataset of the last client-paged load.
	all    []T
	sliced bool
	loaded bool
}

// NewController builds a controller resuming from persisted state.
func NewController[T any, F Criteria, I any](cfg Config[T, F, I], logger *slog.Logger, resume Persisted[F]) *Controller[T, F, I] {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5
	}
	if cfg.RowActions == nil {
		cfg.RowActions = CRUDActions[T](cfg.Perms)
	}
	cfg.Messages = cfg.Messages.withDefaults()
	return &Controller[T, F, I]{
		cfg:    cfg,
		logger: logger.With(slog.String("entity", cfg.Entity)),
		state: State[T, F]{
			Rows:       []T{},
			TrashMode:  resume.TrashMode,
			Filter:     resume.Filter,
			Pagination: shared.NewPagination(resume.Current, resume.PageSize, 0, cfg.PageSize),
			Modal:      Modal{Kind: ModalNone},
		},
	}
}

// State returns a copy of the current state.
func (c *Controller[T, F, I]) State() State[T, F] {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	st.Rows = slices.Clone(c.state.Rows)
	if st.Rows == nil {
		st.Rows = []T{}
	}
	return st
}

// Persisted returns the state worth keeping between requests.
func (c *Controller[T, F, I]) Persisted() Persisted[F] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Persisted[F]{
		TrashMode: c.state.TrashMode,
		Filter:    c.state.Filter,
		Current:   c.state.Pagination.Current,
		PageSize:  c.state.Pagination.PageSize,
	}
}

// Loaded reports whether any load has completed.
func (c *Controller[T, F, I]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Entity returns the configured entity name.
func (c *Controller[T, F, I]) Entity() string { return c.cfg.Entity }

// Toolbar derives the list-level controls for p.
func (c *Controller[T, F, I]) Toolbar(p rbac.Principal) Toolbar {
	c.mu.Lock()
	trash := c.state.TrashMode
	c.mu.Unlock()
	return Toolbar{
		Create: !trash && rbac.Has(p, c.cfg.Perms.Create),
		Trash:  !c.cfg.NoTrash && rbac.Has(p, c.cfg.Perms.Delete),
	}
}

// Actions derives the row actions for rec.
func (c *Controller[T, F, I]) Actions(p rbac.Principal, rec T) []Action {
	c.mu.Lock()
	trash := c.state.TrashMode
	c.mu.Unlock()
	return c.cfg.RowActions(p, rec, trash)
}

// Load fetches rows for the given mode, filter and page. The trash endpoint
// wins over any filter; an empty filter fetches everything and pages locally.
// On failure rows are cleared and pagination is left as it was.
func (c *Controller[T, F, I]) Load(ctx context.Context, trash bool, filter F, page, size int) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state.Loading = true
	c.state.TrashMode = trash
	c.state.Filter = filter
	c.mu.Unlock()

	res, err := c.fetch(ctx, trash, filter, page, size)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.logger.DebugContext(ctx, "discard stale list response", slog.Uint64("generation", gen))
		return ErrStale
	}
	c.state.Loading = false
	c.loaded = true
	if err != nil {
		c.state.Rows = []T{}
		c.all = nil
		c.sliced = false
		c.logger.WarnContext(ctx, "list load failed", slog.Any("error", err))
		c.notify(ctx, shared.NoticeError, loadFailure(err, c.cfg.Messages.LoadFail))
		return fmt.Errorf("listing: load %s: %w", c.cfg.Entity, err)
	}
	if res.sliced {
		c.all = res.all
		c.sliced = true
		c.applyWindow(page, size)
		return nil
	}
	c.all = nil
	c.sliced = false
	c.state.Rows = res.rows
	c.state.Pagination = shared.NewPagination(page, size, res.total, c.cfg.PageSize)
	return nil
}

// Reload repeats the last load with the current mode, filter and page.
func (c *Controller[T, F, I]) Reload(ctx context.Context) error {
	c.mu.Lock()
	st := c.state
	c.mu.Unlock()
	return c.Load(ctx, st.TrashMode, st.Filter, st.Pagination.Current, st.Pagination.PageSize)
}

// ToggleTrash flips trash mode, returns to page 1 and fetches once. Entering
// the trash needs the delete code; leaving it does not.
func (c *Controller[T, F, I]) ToggleTrash(ctx context.Context) error {
	if c.cfg.NoTrash {
		return c.Reject(ctx, errNoTrash)
	}
	c.mu.Lock()
	entering := !c.state.TrashMode
	c.mu.Unlock()
	if entering {
		if err := c.require(ctx, rbac.PrincipalFromContext(ctx), c.cfg.Perms.Delete); err != nil {
			return err
		}
	}
	c.mu.Lock()
	trash := !c.state.TrashMode
	filter := c.state.Filter
	size := c.state.Pagination.PageSize
	c.state.Pagination.Current = 1
	c.state.Modal = Modal{Kind: ModalNone}
	c.mu.Unlock()
	return c.Load(ctx, trash, filter, 1, size)
}

// ApplyFilter submits criteria and returns to page 1.
func (c *Controller[T, F, I]) ApplyFilter(ctx context.Context, filter F) error {
	if c.cfg.CheckFilter != nil && !filter.IsEmpty() {
		if err := c.cfg.CheckFilter(filter); err != nil {
			return c.Reject(ctx, err)
		}
	}
	c.mu.Lock()
	trash := c.state.TrashMode
	size := c.state.Pagination.PageSize
	c.state.Pagination.Current = 1
	c.mu.Unlock()
	return c.Load(ctx, trash, filter, 1, size)
}

// ResetFilter clears criteria and returns to page 1.
func (c *Controller[T, F, I]) ResetFilter(ctx context.Context) error {
	var zero F
	return c.ApplyFilter(ctx, zero)
}

// ChangePage moves the window. Client-paged datasets are re-sliced without
// a fetch.
func (c *Controller[T, F, I]) ChangePage(ctx context.Context, page, size int) error {
	c.mu.Lock()
	if c.sliced && !c.state.Loading {
		c.applyWindow(page, size)
		c.mu.Unlock()
		return nil
	}
	trash := c.state.TrashMode
	filter := c.state.Filter
	c.mu.Unlock()
	return c.Load(ctx, trash, filter, page, size)
}

// OpenModal opens a dialog. Edit and delete dialogs are gated by permission
// and, for edits, by the Editable rule, without calling the backend when the
// record is already loaded.
func (c *Controller[T, F, I]) OpenModal(ctx context.Context, kind ModalKind, id int64) error {
	p := rbac.PrincipalFromContext(ctx)
	switch kind {
	case ModalNone:
		c.CloseModal()
		return nil
	case ModalCreate:
		if err := c.require(ctx, p, c.cfg.Perms.Create); err != nil {
			return err
		}
	case ModalEdit:
		if err := c.requireEdit(ctx, p, id); err != nil {
			return err
		}
	case ModalDeleteConfirm:
		if err := c.require(ctx, p, c.cfg.Perms.Delete); err != nil {
			return err
		}
	case ModalDetail:
	default:
		return Invalid("modal", "Hộp thoại không hợp lệ")
	}
	c.mu.Lock()
	c.state.Modal = Modal{Kind: kind, ID: id}
	c.mu.Unlock()
	return nil
}

// CloseModal closes any open dialog.
func (c *Controller[T, F, I]) CloseModal() {
	c.mu.Lock()
	c.state.Modal = Modal{Kind: ModalNone}
	c.mu.Unlock()
}

// Detail fetches one record for a read-only view.
func (c *Controller[T, F, I]) Detail(ctx context.Context, id int64) (T, error) {
	rec, err := c.cfg.Source.Get(ctx, id)
	if err != nil {
		c.notify(ctx, shared.NoticeError, shared.UserSafeMessage(err))
		return rec, fmt.Errorf("listing: detail %s %d: %w", c.cfg.Entity, id, err)
	}
	c.mu.Lock()
	c.state.Modal = Modal{Kind: ModalDetail, ID: id}
	c.mu.Unlock()
	return rec, nil
}

// SubmitCreate validates locally, creates the record and reloads.
func (c *Controller[T, F, I]) SubmitCreate(ctx context.Context, input I) error {
	p := rbac.PrincipalFromContext(ctx)
	if err := c.require(ctx, p, c.cfg.Perms.Create); err != nil {
		return err
	}
	if err := c.check(ctx, input, 0); err != nil {
		return err
	}
	if err := c.cfg.Source.Create(ctx, input); err != nil {
		return c.mutationFailed(ctx, "create", err, input)
	}
	c.succeeded(ctx, p, "create", 0, c.cfg.Messages.Created)
	return nil
}

// SubmitUpdate validates locally, updates the record and reloads.
func (c *Controller[T, F, I]) SubmitUpdate(ctx context.Context, id int64, input I) error {
	p := rbac.PrincipalFromContext(ctx)
	if err := c.requireEdit(ctx, p, id); err != nil {
		return err
	}
	if err := c.check(ctx, input, id); err != nil {
		return err
	}
	if err := c.cfg.Source.Update(ctx, id, input); err != nil {
		return c.mutationFailed(ctx, "update", err, input)
	}
	c.succeeded(ctx, p, "update", id, c.cfg.Messages.Updated)
	return nil
}

// SoftDelete moves a record to the trash and reloads.
func (c *Controller[T, F, I]) SoftDelete(ctx context.Context, id int64) error {
	p := rbac.PrincipalFromContext(ctx)
	if err := c.require(ctx, p, c.cfg.Perms.Delete); err != nil {
		return err
	}
	if err := c.cfg.Source.Delete(ctx, id); err != nil {
		var zero I
		return c.mutationFailed(ctx, "delete", err, zero)
	}
	c.succeeded(ctx, p, "delete", id, c.cfg.Messages.Deleted)
	return nil
}

// Restore moves a record back from the trash and reloads. It is gated by the
// delete permission.
func (c *Controller[T, F, I]) Restore(ctx context.Context, id int64) error {
	if c.cfg.NoTrash {
		return c.Reject(ctx, errNoTrash)
	}
	p := rbac.PrincipalFromContext(ctx)
	if err := c.require(ctx, p, c.cfg.Perms.Delete); err != nil {
		return err
	}
	if err := c.cfg.Source.Restore(ctx, id); err != nil {
		var zero I
		return c.mutationFailed(ctx, "restore", err, zero)
	}
	c.succeeded(ctx, p, "restore", id, c.cfg.Messages.Restored)
	return nil
}

// Step is a status change such as approve or cancel.
type Step struct {
	Action string
	Perm   rbac.PermissionID
	// Check runs after the permission check and before Call.
	Check   func(ctx context.Context, id int64) error
	Call    func(ctx context.Context, id int64) error
	Message string
}

// Transition runs step through the same notice, audit and reload path as
// the other mutations.
func (c *Controller[T, F, I]) Transition(ctx context.Context, id int64, step Step) error {
	p := rbac.PrincipalFromContext(ctx)
	if err := c.require(ctx, p, step.Perm); err != nil {
		return err
	}
	if step.Check != nil {
		if err := step.Check(ctx, id); err != nil {
			return c.Reject(ctx, err)
		}
	}
	if err := step.Call(ctx, id); err != nil {
		var zero I
		return c.mutationFailed(ctx, step.Action, err, zero)
	}
	c.succeeded(ctx, p, step.Action, id, step.Message)
	return nil
}

// Lookup returns a loaded record by id.
func (c *Controller[T, F, I]) Lookup(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookupLocked(id)
}

// Reject reports a local rejection as a notice and returns it.
func (c *Controller[T, F, I]) Reject(ctx context.Context, err error) error {
	c.notify(ctx, shared.NoticeError, shared.UserSafeMessage(err))
	return err
}

func (c *Controller[T, F, I]) lookupLocked(id int64) (T, bool) {
	if c.cfg.ID != nil {
		for _, set := range [][]T{c.all, c.state.Rows} {
			for _, rec := range set {
				if c.cfg.ID(rec) == id {
					return rec, true
				}
			}
		}
	}
	var zero T
	return zero, false
}

type fetchResult[T any] struct {
	rows   []T
	total  int
	all    []T
	sliced bool
}

func (c *Controller[T, F, I]) fetch(ctx context.Context, trash bool, filter F, page, size int) (fetchResult[T], error) {
	src := c.cfg.Source
	switch {
	case trash:
		rows, err := src.Trash(ctx)
		return fetchResult[T]{all: rows, sliced: true}, err
	case !filter.IsEmpty() && c.cfg.Strategy == ServerPaged:
		if page <= 0 {
			page = 1
		}
		if size <= 0 {
			size = c.cfg.PageSize
		}
		res, err := src.Query(ctx, filter, page, size)
		if res.Rows == nil {
			res.Rows = []T{}
		}
		return fetchResult[T]{rows: res.Rows, total: res.Total}, err
	case !filter.IsEmpty():
		res, err := src.Query(ctx, filter, page, size)
		return fetchResult[T]{all: res.Rows, sliced: true}, err
	default:
		rows, err := src.List(ctx)
		if err == nil && c.cfg.Sort != nil {
			rows = slices.Clone(rows)
			slices.SortStableFunc(rows, c.cfg.Sort)
		}
		return fetchResult[T]{all: rows, sliced: true}, err
	}
}

// applyWindow slices c.all for page/size. Callers hold c.mu.
func (c *Controller[T, F, I]) applyWindow(page, size int) {
	pg := shared.NewPagination(page, size, len(c.all), c.cfg.PageSize)
	if pages := pg.TotalPages(); pages > 0 && pg.Current > pages {
		pg.Current = pages
	}
	start, end := pg.Window(len(c.all))
	rows := make([]T, end-start)
	copy(rows, c.all[start:end])
	c.state.Rows = rows
	c.state.Pagination = pg
}

func (c *Controller[T, F, I]) require(ctx context.Context, p rbac.Principal, perm rbac.PermissionID) error {
	if err := rbac.Check(p, perm); err != nil {
		c.notify(ctx, shared.NoticeError, "Bạn không có quyền thực hiện thao tác này.")
		return err
	}
	return nil
}

func (c *Controller[T, F, I]) check(ctx context.Context, input I, id int64) error {
	if c.cfg.Check == nil {
		return nil
	}
	// A fresh controller has no rows to compare against yet.
	if !c.Loaded() {
		if err := c.Reload(ctx); err != nil && !errors.Is(err, ErrStale) {
			c.logger.WarnContext(ctx, "load before local check", slog.Any("error", err))
		}
	}
	c.mu.Lock()
	snap := Snapshot[T]{TrashMode: c.state.TrashMode}
	if c.sliced {
		snap.Rows = slices.Clone(c.all)
	} else {
		snap.Rows = slices.Clone(c.state.Rows)
	}
	c.mu.Unlock()
	if err := c.cfg.Check(ctx, snap, input, id); err != nil {
		return c.Reject(ctx, err)
	}
	return nil
}

// requireEdit applies the Editable rule when configured, the edit code
// otherwise.
func (c *Controller[T, F, I]) requireEdit(ctx context.Context, p rbac.Principal, id int64) error {
	if c.cfg.Editable == nil {
		return c.require(ctx, p, c.cfg.Perms.Edit)
	}
	if err := c.require(ctx, p, rbac.None); err != nil {
		return err
	}
	return c.checkEditable(ctx, p, id)
}

func (c *Controller[T, F, I]) checkEditable(ctx context.Context, p rbac.Principal, id int64) error {
	if c.cfg.Editable == nil {
		return nil
	}
	rec, ok := c.Lookup(id)
	if !ok {
		var err error
		rec, err = c.cfg.Source.Get(ctx, id)
		if err != nil {
			c.notify(ctx, shared.NoticeError, shared.UserSafeMessage(err))
			return fmt.Errorf("listing: load %s %d for edit: %w", c.cfg.Entity, id, err)
		}
	}
	if err := c.cfg.Editable(p, rec); err != nil {
		return c.Reject(ctx, err)
	}
	return nil
}

func (c *Controller[T, F, I]) mutationFailed(ctx context.Context, action string, err error, input I) error {
	c.logger.WarnContext(ctx, "list mutation failed", slog.String("action", action), slog.Any("error", err))
	msg := shared.UserSafeMessage(err)
	if c.cfg.DuplicateMessage != nil && (action == "create" || action == "update") && IsDuplicateMessage(msg) {
		msg = c.cfg.DuplicateMessage(input)
		err = &duplicateError{msg: msg, err: err}
	}
	c.notify(ctx, shared.NoticeError, msg)
	return fmt.Errorf("listing: %s %s: %w", action, c.cfg.Entity, err)
}

func (c *Controller[T, F, I]) succeeded(ctx context.Context, p rbac.Principal, action string, id int64, message string) {
	c.mu.Lock()
	c.state.Modal = Modal{Kind: ModalNone}
	c.mu.Unlock()
	c.notify(ctx, shared.NoticeSuccess, message)
	if c.cfg.Auditor != nil {
		entry := shared.AuditLog{
			ActorID:   p.UserID,
			ActorName: p.FullName,
			Action:    action,
			Entity:    c.cfg.Entity,
		}
		if id != 0 {
			entry.EntityID = strconv.FormatInt(id, 10)
		}
		if err := c.cfg.Auditor.Record(ctx, entry); err != nil {
			c.logger.ErrorContext(ctx, "audit record", slog.Any("error", err))
		}
	}
	// The reload reports its own failure as a notice.
	if err := c.Reload(ctx); err != nil && !errors.Is(err, ErrStale) {
		c.logger.WarnContext(ctx, "reload after mutation", slog.Any("error", err))
	}
}

func (c *Controller[T, F, I]) notify(ctx context.Context, kind, message string) {
	if sess := shared.SessionFromContext(ctx); sess != nil && message != "" {
		sess.AddNotice(shared.Notice{Kind: kind, Message: message})
	}
}

// IsDuplicateMessage reports whether a backend message denotes a uniqueness
// conflict.
func IsDuplicateMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "duplicate") ||
		strings.Contains(lower, "unique") ||
		strings.Contains(lower, "đã tồn tại")
}

var errNoTrash = Invalid("trash", "Danh sách này không có thùng rác.")

type duplicateError struct {
	msg string
	err error
}

func (e *duplicateError) Error() string       { return e.msg }
func (e *duplicateError) UserMessage() string { return e.msg }
func (e *duplicateError) Unwrap() error       { return e.err }

// Is matches httpx.ErrDuplicate.
func (e *duplicateError) Is(target error) bool { return target == httpx.ErrDuplicate }

func loadFailure(err error, fallback string) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}
	return fallback
}
