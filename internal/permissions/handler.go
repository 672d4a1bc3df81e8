package permissions

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atlas-admin/atlas-admin/internal/platform/httpx"
	"github.com/atlas-admin/atlas-admin/internal/rbac"
	"github.com/atlas-admin/atlas-admin/internal/shared"
)

// Handler manages permission administration endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	resolver  *rbac.Service
	validator *validator.Validate
}

// NewHandler builds a Handler instance. The resolver serves the tree view.
func NewHandler(logger *slog.Logger, service *Service, resolver *rbac.Service) *Handler {
	return &Handler{logger: logger, service: service, resolver: resolver, validator: validator.New()}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filter{}
	if v := q.Get("code"); v != "" {
		f.Code = &v
	}
	if v := q.Get("name"); v != "" {
		f.Name = &v
	}
	if v := q.Get("type"); v != "" {
		f.Type = &v
	}
	if v := q.Get("parent_id"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.ParentID = &parsed
		}
	}
	if v := q.Get("status"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 16); err == nil {
			status := int16(parsed)
			f.Status = &status
		}
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.PageSize, _ = strconv.Atoi(q.Get("pageSize"))

	items, total, err := h.service.List(r.Context(), f)
	if err != nil {
		h.logger.Error("list permissions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Permission{}
	}
	httpx.Page(w, items, shared.NewPagination(f.Page, f.PageSize, total))
}

// Tree renders the enabled permission forest for menu construction.
func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.resolver.PermissionTree(r.Context())
	if err != nil {
		h.logger.Error("permission tree", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if tree == nil {
		tree = []*rbac.PermissionNode{}
	}
	httpx.OK(w, tree)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, p)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePermissionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	unique, err := h.resolver.IsCodeUnique(r.Context(), req.Code, 0)
	if err != nil {
		h.logger.Error("check permission code", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if !unique {
		httpx.RespondError(w, fmt.Errorf("%w: permission code already exists", shared.ErrConflict))
		return
	}
	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create permission", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req UpdatePermissionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update permission", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Warn("delete permission", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, nil)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, shared.ErrInvalidArgument
	}
	return id, nil
}
