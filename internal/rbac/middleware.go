package rbac

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/atlas-admin/atlas-admin/internal/platform/httpx"
	"github.com/atlas-admin/atlas-admin/internal/shared"
)

// Resolver is the slice of Service the gates depend on.
type Resolver interface {
	PermissionCodes(ctx context.Context, userID int64) ([]string, error)
	RoleCodes(ctx context.Context, userID int64) ([]string, error)
}

// Middleware wires authorization gates for HTTP handlers. Gates run
// strictly after authentication; a request with no resolved identity is
// rejected as unauthenticated, never allowed through.
type Middleware struct {
	Resolver Resolver
	Logger   *slog.Logger
}

// RequirePermission allows the request when the identity holds at least
// one of the given permission codes.
func (m Middleware) RequirePermission(codes ...string) func(http.Handler) http.Handler {
	return m.gate("permission", codes, func(r *http.Request, userID int64) ([]string, error) {
		return m.Resolver.PermissionCodes(r.Context(), userID)
	})
}

// RequireRole allows the request when the identity holds at least one of
// the given role codes.
func (m Middleware) RequireRole(codes ...string) func(http.Handler) http.Handler {
	return m.gate("role", codes, func(r *http.Request, userID int64) ([]string, error) {
		return m.Resolver.RoleCodes(r.Context(), userID)
	})
}

// RequireSuperAdmin is shorthand for RequireRole(shared.SuperAdminRole).
func (m Middleware) RequireSuperAdmin() func(http.Handler) http.Handler {
	return m.RequireRole(shared.SuperAdminRole)
}

func (m Middleware) gate(kind string, required []string, granted func(*http.Request, int64) ([]string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(required) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			identity := shared.IdentityFromContext(r.Context())
			if identity == nil {
				// Fail closed: a gate reached without authentication is a
				// wiring bug, not a grant.
				httpx.RespondError(w, shared.ErrUnauthenticated)
				return
			}
			held, err := granted(r, identity.ID)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("authorization check", slog.String("kind", kind), slog.Any("error", err))
				}
				httpx.Fail(w, http.StatusInternalServerError, "internal error")
				return
			}
			if hasAny(held, required) {
				next.ServeHTTP(w, r)
				return
			}
			if m.Logger != nil {
				m.Logger.Warn("authorization denied",
					slog.String("kind", kind),
					slog.Int64("user_id", identity.ID),
					slog.Any("required", required),
					slog.String("path", r.URL.Path))
			}
			httpx.RespondError(w, shared.ErrPermissionDenied)
		})
	}
}

func hasAny(held []string, required []string) bool {
	set := make(map[string]struct{}, len(held))
	for _, code := range held {
		set[code] = struct{}{}
	}
	for _, code := range required {
		if _, ok := set[code]; ok {
			return true
		}
	}
	return false
}
