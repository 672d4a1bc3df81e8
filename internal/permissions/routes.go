package permissions

import (
	"github.com/go-chi/chi/v5"

	"github.com/atlas-admin/atlas-admin/internal/rbac"
	"github.com/atlas-admin/atlas-admin/internal/shared"
)

// MountRoutes registers permission administration routes.
func (h *Handler) MountRoutes(r chi.Router, gate rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(gate.RequirePermission(shared.PermPermissionList))
		r.Get("/", h.List)
		r.Get("/tree", h.Tree)
		r.Get("/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.RequirePermission(shared.PermPermissionCreate))
		r.Post("/", h.Create)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.RequirePermission(shared.PermPermissionUpdate))
		r.Put("/{id}", h.Update)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.RequirePermission(shared.PermPermissionDelete))
		r.Delete("/{id}", h.Delete)
	})
}
