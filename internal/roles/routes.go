package roles

import (
	"github.com/go-chi/chi/v5"

	"github.com/atlas-admin/atlas-admin/internal/rbac"
	"github.com/atlas-admin/atlas-admin/internal/shared"
)

// MountRoutes registers role administration routes.
func (h *Handler) MountRoutes(r chi.Router, gate rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(gate.RequirePermission(shared.PermRoleList))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.RequirePermission(shared.PermRoleCreate))
		r.Post("/", h.Create)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.RequirePermission(shared.PermRoleUpdate))
		r.Put("/{id}", h.Update)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.RequirePermission(shared.PermRoleDelete))
		r.Delete("/{id}", h.Delete)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.RequirePermission(shared.PermRoleAssign))
		r.Get("/{id}/permissions", h.ListPermissions)
		r.Put("/{id}/permissions", h.AssignPermissions)
	})
}
