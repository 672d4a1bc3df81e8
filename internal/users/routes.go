package users

import (
	"github.com/go-chi/chi/v5"

	"github.com/atlas-admin/atlas-admin/internal/rbac"
	"github.com/atlas-admin/atlas-admin/internal/shared"
)

// MountRoutes registers user administration routes.
func (h *Handler) MountRoutes(r chi.Router, gate rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(gate.RequirePermission(shared.PermUserList))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.RequirePermission(shared.PermUserCreate))
		r.Post("/", h.Create)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.RequirePermission(shared.PermUserUpdate))
		r.Put("/{id}", h.Update)
		r.Put("/{id}/password", h.ResetPassword)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.RequirePermission(shared.PermUserDelete))
		r.Delete("/{id}", h.Delete)
	})
	r.Group(func(r chi.Router) {
		r.Use(gate.RequirePermission(shared.PermUserAssign))
		r.Get("/{id}/roles", h.ListRoles)
		r.Put("/{id}/roles", h.AssignRoles)
	})
}
