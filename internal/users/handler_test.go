package users

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/atlas-admin/atlas-admin/internal/platform/httpx"
	"github.com/atlas-admin/atlas-admin/internal/rbac"
	"github.com/atlas-admin/atlas-admin/internal/shared"
	_ "github.com/atlas-admin/atlas-admin/testing"
)

type grantAll struct{}

func (grantAll) PermissionCodes(ctx context.Context, userID int64) ([]string, error) {
	return shared.CoreScopes(), nil
}

func (grantAll) RoleCodes(ctx context.Context, userID int64) ([]string, error) {
	return []string{shared.SuperAdminRole}, nil
}

type grantNone struct{}

func (grantNone) PermissionCodes(ctx context.Context, userID int64) ([]string, error) {
	return nil, nil
}

func (grantNone) RoleCodes(ctx context.Context, userID int64) ([]string, error) {
	return nil, nil
}

func identityMiddleware(id int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.ContextWithIdentity(r.Context(), &shared.Identity{ID: id, Username: "actor"})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func testRouter(repo *mockRepo, resolver rbac.Resolver, actorID int64) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewService(repo, bcrypt.MinCost))
	gate := rbac.Middleware{Resolver: resolver, Logger: logger}

	r := chi.NewRouter()
	r.Route("/users", func(r chi.Router) {
		r.Use(identityMiddleware(actorID))
		handler.MountRoutes(r, gate)
	})
	return r
}

func seedUser(t *testing.T, repo *mockRepo, username string) User {
	t.Helper()
	user, err := repo.Create(context.Background(), User{
		Username: username,
		Email:    username + "@example.com",
		Status:   StatusEnabled,
	})
	require.NoError(t, err)
	return user
}

func TestListUsersEndpoint(t *testing.T) {
	repo := newMockRepo()
	seedUser(t, repo, "alice")
	seedUser(t, repo, "bob")
	router := testRouter(repo, grantAll{}, 99)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/users", nil))

	require.Equal(t, http.StatusOK, res.Code)
	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &env))
	data := env.Data.(map[string]any)
	assert.Len(t, data["list"], 2)
	pagination := data["pagination"].(map[string]any)
	assert.Equal(t, float64(2), pagination["total"])
}

func TestCreateUserEndpoint(t *testing.T) {
	repo := newMockRepo()
	router := testRouter(repo, grantAll{}, 99)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"username":"carol","email":"carol@example.com","password":"hunter2hunter2"}`))
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.Len(t, repo.users, 1)
	for _, u := range repo.users {
		assert.Equal(t, "carol", u.Username)
	}
	// The hash must never appear on the wire.
	assert.NotContains(t, res.Body.String(), "password_hash")
}

func TestCreateUserEndpointValidation(t *testing.T) {
	router := testRouter(newMockRepo(), grantAll{}, 99)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"username":"x","email":"not-an-email","password":"short"}`))
	router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestPermissionGateBlocksUngranted(t *testing.T) {
	repo := newMockRepo()
	seedUser(t, repo, "alice")
	router := testRouter(repo, grantNone{}, 99)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/users", nil))
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestDeleteSelfEndpoint(t *testing.T) {
	repo := newMockRepo()
	user := seedUser(t, repo, "alice")
	router := testRouter(repo, grantAll{}, user.ID)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodDelete, "/users/1", nil))
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Contains(t, repo.users, user.ID)
}

func TestAssignRolesEndpoint(t *testing.T) {
	repo := newMockRepo()
	user := seedUser(t, repo, "alice")
	router := testRouter(repo, grantAll{}, 99)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/users/1/roles",
		strings.NewReader(`{"role_ids":[2,3]}`))
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, []int64{2, 3}, repo.roles[user.ID])

	res = httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/users/1/roles", nil))
	require.Equal(t, http.StatusOK, res.Code)
	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &env))
	data := env.Data.(map[string]any)
	assert.Len(t, data["role_ids"], 2)
}

func TestShowUnknownUser(t *testing.T) {
	router := testRouter(newMockRepo(), grantAll{}, 99)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/users/42", nil))
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestBadIDRejected(t *testing.T) {
	router := testRouter(newMockRepo(), grantAll{}, 99)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/users/abc", nil))
	assert.Equal(t, http.StatusBadRequest, res.Code)
}
