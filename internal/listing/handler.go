package listing

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stu-kho/kho-console/internal/backend"
	"github.com/stu-kho/kho-console/internal/platform/httpx"
	"github.com/stu-kho/kho-console/internal/rbac"
	"github.com/stu-kho/kho-console/internal/shared"
)

// Row is one record with the actions the principal may use on it.
type Row[T any] struct {
	Record  T        `json:"record"`
	Actions []Action `json:"actions"`
}

// View is the JSON rendering of a list.
type View[T any, F Criteria] struct {
	Entity     string            `json:"entity"`
	Rows       []Row[T]          `json:"rows"`
	Loading    bool              `json:"loading"`
	TrashMode  bool              `json:"trashMode"`
	Filter     F                 `json:"filter"`
	Pagination shared.Pagination `json:"pagination"`
	Modal      Modal             `json:"modal"`
	Toolbar    Toolbar           `json:"toolbar"`
	Notices    []shared.Notice   `json:"notices"`
}

// Handler exposes a Registry over HTTP.
type Handler[T any, F Criteria, I any] struct {
	registry *Registry[T, F, I]
	logger   *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler[T any, F Criteria, I any](registry *Registry[T, F, I], logger *slog.Logger) *Handler[T, F, I] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler[T, F, I]{registry: registry, logger: logger}
}

// MountRoutes registers the list routes. Callers guard the router with the
// entity view permission.
func (h *Handler[T, F, I]) MountRoutes(r chi.Router) {
	r.Get("/", h.handleView)
	r.Post("/", h.handleCreate)
	r.Post("/reload", h.handleReload)
	r.Post("/trash", h.handleToggleTrash)
	r.Post("/filter", h.handleFilter)
	r.Delete("/filter", h.handleResetFilter)
	r.Post("/page", h.handlePage)
	r.Post("/modal", h.handleModal)
	r.Get("/{id}", h.handleDetail)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
	r.Post("/{id}/restore", h.handleRestore)
}

// Forget drops the controller of a session, on logout.
func (h *Handler[T, F, I]) Forget(sessionID string) {
	h.registry.Forget(sessionID)
}

// Controller returns the controller of the request session.
func (h *Handler[T, F, I]) Controller(r *http.Request) *Controller[T, F, I] {
	sess := shared.SessionFromContext(r.Context())
	key := "list:" + h.registry.cfg.Entity
	var resume Persisted[F]
	sessionID := ""
	if sess != nil {
		sessionID = sess.ID
		if raw := sess.Get(key); raw != "" {
			if err := json.Unmarshal([]byte(raw), &resume); err != nil {
				h.logger.WarnContext(r.Context(), "discard list state", slog.String("key", key), slog.Any("error", err))
				resume = Persisted[F]{}
			}
		}
	}
	ctrl, _ := h.registry.For(sessionID, resume)
	return ctrl
}

// Respond writes the view with a status derived from err.
func (h *Handler[T, F, I]) Respond(w http.ResponseWriter, r *http.Request, ctrl *Controller[T, F, I], err error) {
	ctx := r.Context()
	sess := shared.SessionFromContext(ctx)
	if sess != nil {
		if data, mErr := json.Marshal(ctrl.Persisted()); mErr == nil {
			sess.Set("list:"+ctrl.Entity(), string(data))
		}
	}
	principal := rbac.PrincipalFromContext(ctx)
	st := ctrl.State()
	view := View[T, F]{
		Entity:     ctrl.Entity(),
		Rows:       make([]Row[T], 0, len(st.Rows)),
		Loading:    st.Loading,
		TrashMode:  st.TrashMode,
		Filter:     st.Filter,
		Pagination: st.Pagination,
		Modal:      st.Modal,
		Toolbar:    ctrl.Toolbar(principal),
		Notices:    sess.DrainNotices(),
	}
	for _, rec := range st.Rows {
		actions := ctrl.Actions(principal, rec)
		if actions == nil {
			actions = []Action{}
		}
		view.Rows = append(view.Rows, Row[T]{Record: rec, Actions: actions})
	}
	if view.Notices == nil {
		view.Notices = []shared.Notice{}
	}
	httpx.JSON(w, StatusFor(err), view)
}

// StatusFor maps an operation error to the HTTP status of the view.
func StatusFor(err error) int {
	var apiErr *backend.APIError
	switch {
	case err == nil, errors.Is(err, ErrStale):
		return http.StatusOK
	case errors.Is(err, rbac.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, rbac.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, httpx.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, httpx.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, httpx.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &apiErr):
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

// ParseID reads the {id} URL parameter.
func ParseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, Invalid("id", "Mã bản ghi không hợp lệ")
	}
	return id, nil
}

func (h *Handler[T, F, I]) handleView(w http.ResponseWriter, r *http.Request) {
	ctrl := h.Controller(r)
	var err error
	if !ctrl.Loaded() {
		err = ctrl.Reload(r.Context())
	}
	h.Respond(w, r, ctrl, err)
}

func (h *Handler[T, F, I]) handleReload(w http.ResponseWriter, r *http.Request) {
	ctrl := h.Controller(r)
	h.Respond(w, r, ctrl, ctrl.Reload(r.Context()))
}

func (h *Handler[T, F, I]) handleToggleTrash(w http.ResponseWriter, r *http.Request) {
	ctrl := h.Controller(r)
	h.Respond(w, r, ctrl, ctrl.ToggleTrash(r.Context()))
}

func (h *Handler[T, F, I]) handleFilter(w http.ResponseWriter, r *http.Request) {
	ctrl := h.Controller(r)
	var filter F
	if err := httpx.DecodeJSON(r, &filter); err != nil {
		h.Respond(w, r, ctrl, ctrl.Reject(r.Context(), Invalid("filter", "Bộ lọc không hợp lệ")))
		return
	}
	h.Respond(w, r, ctrl, ctrl.ApplyFilter(r.Context(), filter))
}

func (h *Handler[T, F, I]) handleResetFilter(w http.ResponseWriter, r *http.Request) {
	ctrl := h.Controller(r)
	h.Respond(w, r, ctrl, ctrl.ResetFilter(r.Context()))
}

type pageRequest struct {
	Current  int `json:"current"`
	PageSize int `json:"pageSize"`
}

func (h *Handler[T, F, I]) handlePage(w http.ResponseWriter, r *http.Request) {
	ctrl := h.Controller(r)
	var req pageRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.Respond(w, r, ctrl, ctrl.Reject(r.Context(), Invalid("page", "Trang không hợp lệ")))
		return
	}
	h.Respond(w, r, ctrl, ctrl.ChangePage(r.Context(), req.Current, req.PageSize))
}

type modalRequest struct {
	Kind ModalKind `json:"kind"`
	ID   int64     `json:"id"`
}

func (h *Handler[T, F, I]) handleModal(w http.ResponseWriter, r *http.Request) {
	ctrl := h.Controller(r)
	var req modalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.Respond(w, r, ctrl, ctrl.Reject(r.Context(), Invalid("modal", "Hộp thoại không hợp lệ")))
		return
	}
	h.Respond(w, r, ctrl, ctrl.OpenModal(r.Context(), req.Kind, req.ID))
}

func (h *Handler[T, F, I]) handleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	ctrl := h.Controller(r)
	rec, err := ctrl.Detail(r.Context(), id)
	if err != nil {
		h.Respond(w, r, ctrl, err)
		return
	}
	httpx.JSON(w, http.StatusOK, Row[T]{Record: rec, Actions: ctrl.Actions(rbac.PrincipalFromContext(r.Context()), rec)})
}

func (h *Handler[T, F, I]) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctrl := h.Controller(r)
	var input I
	if err := httpx.DecodeJSON(r, &input); err != nil {
		h.Respond(w, r, ctrl, ctrl.Reject(r.Context(), Invalid("", "Dữ liệu gửi lên không hợp lệ")))
		return
	}
	h.Respond(w, r, ctrl, ctrl.SubmitCreate(r.Context(), input))
}

func (h *Handler[T, F, I]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctrl := h.Controller(r)
	id, err := ParseID(r)
	if err != nil {
		h.Respond(w, r, ctrl, ctrl.Reject(r.Context(), err))
		return
	}
	var input I
	if err := httpx.DecodeJSON(r, &input); err != nil {
		h.Respond(w, r, ctrl, ctrl.Reject(r.Context(), Invalid("", "Dữ liệu gửi lên không hợp lệ")))
		return
	}
	h.Respond(w, r, ctrl, ctrl.SubmitUpdate(r.Context(), id, input))
}

func (h *Handler[T, F, I]) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctrl := h.Controller(r)
	id, err := ParseID(r)
	if err != nil {
		h.Respond(w, r, ctrl, ctrl.Reject(r.Context(), err))
		return
	}
	h.Respond(w, r, ctrl, ctrl.SoftDelete(r.Context(), id))
}

func (h *Handler[T, F, I]) handleRestore(w http.ResponseWriter, r *http.Request) {
	ctrl := h.Controller(r)
	id, err := ParseID(r)
	if err != nil {
		h.Respond(w, r, ctrl, ctrl.Reject(r.Context(), err))
		return
	}
	h.Respond(w, r, ctrl, ctrl.Restore(r.Context(), id))
}
