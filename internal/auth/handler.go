package auth

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atlas-admin/atlas-admin/internal/platform/httpx"
	"github.com/atlas-admin/atlas-admin/internal/rbac"
	"github.com/atlas-admin/atlas-admin/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	resolver  *rbac.Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance. The resolver enriches the
// /auth/me payload with the caller's roles and permissions.
func NewHandler(logger *slog.Logger, service *Service, resolver *rbac.Service) *Handler {
	return &Handler{logger: logger, service: service, resolver: resolver, validator: validator.New()}
}

// MountPublicRoutes registers the anonymous endpoints.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/register", h.handleRegister)
}

// MountProtectedRoutes registers the endpoints behind the bearer check.
func (h *Handler) MountProtectedRoutes(r chi.Router) {
	r.Get("/me", h.handleMe)
	r.Post("/change-password", h.handleChangePassword)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, expiresAt, err := h.service.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		h.logger.Warn("login rejected", slog.String("login", req.Login))
		httpx.RespondError(w, err)
		return
	}

	if err := h.service.TrackLogin(r.Context(), user.ID, clientIP(r)); err != nil {
		h.logger.Warn("track login", slog.Any("error", err))
	}

	httpx.OK(w, LoginResponse{Token: token, ExpiresAt: expiresAt, User: toProfile(user)})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password, req.Nickname)
	if err != nil {
		h.logger.Warn("register rejected", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, toProfile(user))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}

	roles, err := h.resolver.GetUserRoles(r.Context(), identity.ID)
	if err != nil {
		h.logger.Error("resolve roles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	perms, err := h.resolver.GetUserPermissions(r.Context(), identity.ID)
	if err != nil {
		h.logger.Error("resolve permissions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if roles == nil {
		roles = []rbac.Role{}
	}
	if perms == nil {
		perms = []rbac.Permission{}
	}

	httpx.OK(w, map[string]any{
		"user": Profile{
			ID:       identity.ID,
			Username: identity.Username,
			Email:    identity.Email,
		},
		"roles":       roles,
		"permissions": perms,
		"menu":        rbac.BuildTree(onlyMenus(perms)),
	})
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	var req ChangePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.ChangePassword(r.Context(), identity.ID, req.OldPassword, req.NewPassword); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, nil)
}

// onlyMenus keeps the menu and button kinds the UI renders.
func onlyMenus(perms []rbac.Permission) []rbac.Permission {
	var out []rbac.Permission
	for _, p := range perms {
		if p.Type == "menu" || p.Type == "button" {
			out = append(out, p)
		}
	}
	return out
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
