package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/atlas-admin/atlas-admin/internal/platform/httpx"
	"github.com/atlas-admin/atlas-admin/internal/shared"
)

// Middleware returns the bearer-token authentication middleware. It
// verifies the token, resolves the embedded user id against the store and
// attaches the identity to the request context for downstream gates.
func Middleware(tokens *TokenManager, service *Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httpx.Fail(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if raw == "" || raw == header {
				httpx.Fail(w, http.StatusUnauthorized, "malformed authorization header")
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				httpx.RespondError(w, err)
				return
			}

			user, err := service.Identify(r.Context(), claims)
			if err != nil {
				if logger != nil {
					logger.Warn("authentication rejected", slog.Int64("uid", claims.UserID), slog.Any("error", err))
				}
				httpx.RespondError(w, err)
				return
			}

			ctx := shared.ContextWithIdentity(r.Context(), &shared.Identity{
				ID:       user.ID,
				Username: user.Username,
				Email:    user.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
