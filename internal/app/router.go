package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/atlas-admin/atlas-admin/internal/auth"
	"github.com/atlas-admin/atlas-admin/internal/observability"
	"github.com/atlas-admin/atlas-admin/internal/permissions"
	"github.com/atlas-admin/atlas-admin/internal/ratelimit"
	"github.com/atlas-admin/atlas-admin/internal/rbac"
	"github.com/atlas-admin/atlas-admin/internal/roles"
	"github.com/atlas-admin/atlas-admin/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	Redis              *redis.Client
	Tokens             *auth.TokenManager
	AuthService        *auth.Service
	AuthHandler        *auth.Handler
	UsersHandler       *users.Handler
	RolesHandler       *roles.Handler
	PermissionsHandler *permissions.Handler
	RBACMiddleware     rbac.Middleware
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Atlas defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	strict := ratelimit.Strict(params.Redis, params.Logger)
	moderate := ratelimit.Moderate(params.Redis, params.Logger)
	loose := ratelimit.Loose(params.Redis, params.Logger)

	r.Route("/auth", func(r chi.Router) {
		r.With(strict).Group(params.AuthHandler.MountPublicRoutes)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(params.Tokens, params.AuthService, params.Logger))
			r.Use(loose)
			params.AuthHandler.MountProtectedRoutes(r)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(params.Tokens, params.AuthService, params.Logger))
		r.Use(loose)

		r.Route("/users", func(r chi.Router) {
			r.With(mutationOnly(moderate)).Group(func(r chi.Router) {
				params.UsersHandler.MountRoutes(r, params.RBACMiddleware)
			})
		})
		r.Route("/roles", func(r chi.Router) {
			r.With(mutationOnly(moderate)).Group(func(r chi.Router) {
				params.RolesHandler.MountRoutes(r, params.RBACMiddleware)
			})
		})
		r.Route("/permissions", func(r chi.Router) {
			r.With(mutationOnly(moderate)).Group(func(r chi.Router) {
				params.PermissionsHandler.MountRoutes(r, params.RBACMiddleware)
			})
		})
	})

	return r
}

// mutationOnly applies a middleware to write methods only, so list and
// read traffic is not charged against the mutation budget.
func mutationOnly(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				limited.ServeHTTP(w, r)
			}
		})
	}
}
