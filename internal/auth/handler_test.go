package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-admin/atlas-admin/internal/platform/httpx"
	"github.com/atlas-admin/atlas-admin/internal/rbac"
	_ "github.com/atlas-admin/atlas-admin/testing"
)

type rbacStoreStub struct {
	roles []rbac.Role
	perms []rbac.Permission
}

func (s *rbacStoreStub) UserRoles(ctx context.Context, userID int64) ([]rbac.Role, error) {
	return s.roles, nil
}

func (s *rbacStoreStub) UserPermissions(ctx context.Context, userID int64) ([]rbac.Permission, error) {
	return s.perms, nil
}

func (s *rbacStoreStub) EnabledPermissions(ctx context.Context) ([]rbac.Permission, error) {
	return s.perms, nil
}

func (s *rbacStoreStub) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	return false, nil
}

func testRouter(t *testing.T, repo Repository, store rbac.StorePort) http.Handler {
	t.Helper()
	svc := newTestService(repo)
	handler := NewHandler(discardLogger(), svc, rbac.NewService(store))

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		handler.MountPublicRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(Middleware(svc.tokens, svc, nil))
			handler.MountProtectedRoutes(r)
		})
	})
	return r
}

func decodeEnvelope(t *testing.T, res *httptest.ResponseRecorder) httpx.Envelope {
	t.Helper()
	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &env))
	return env
}

func TestLoginEndpoint(t *testing.T) {
	repo := newStubRepo(&User{
		ID: 1, Username: "jdoe", Email: "jdoe@example.com",
		PasswordHash: hashOf(t, "hunter2hunter2"), Status: 1,
	})
	router := testRouter(t, repo, &rbacStoreStub{})

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"login":"jdoe","password":"hunter2hunter2"}`))
	req.RemoteAddr = "10.1.2.3:5555"
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	env := decodeEnvelope(t, res)
	assert.Equal(t, 0, env.Code)
	data := env.Data.(map[string]any)
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "jdoe", user["username"])
	assert.Equal(t, "10.1.2.3", repo.trackedIP)
}

func TestLoginEndpointBadPassword(t *testing.T) {
	repo := newStubRepo(&User{
		ID: 1, Username: "jdoe", Email: "jdoe@example.com",
		PasswordHash: hashOf(t, "hunter2hunter2"), Status: 1,
	})
	router := testRouter(t, repo, &rbacStoreStub{})

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"login":"jdoe","password":"wrong-password"}`))
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLoginEndpointValidation(t *testing.T) {
	router := testRouter(t, newStubRepo(), &rbacStoreStub{})

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"login":"jdoe","password":"short"}`))
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestMeEndpoint(t *testing.T) {
	user := &User{ID: 1, Username: "jdoe", Email: "jdoe@example.com", Status: 1}
	repo := newStubRepo(user)
	store := &rbacStoreStub{
		roles: []rbac.Role{{ID: 1, Code: "super_admin", Name: "Super Administrator"}},
		perms: []rbac.Permission{
			{ID: 1, Code: "system", Type: "menu", SortOrder: 1},
			{ID: 2, Code: "user:list", Type: "api", ParentID: 1, SortOrder: 1},
			{ID: 3, Code: "user:create", Type: "button", ParentID: 1, SortOrder: 2},
		},
	}
	svc := newTestService(repo)
	handler := NewHandler(discardLogger(), svc, rbac.NewService(store))

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(Middleware(svc.tokens, svc, nil))
			handler.MountProtectedRoutes(r)
		})
	})

	raw, _, err := svc.tokens.Issue(user)
	require.NoError(t, err)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	r.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	env := decodeEnvelope(t, res)
	data := env.Data.(map[string]any)

	roles := data["roles"].([]any)
	require.Len(t, roles, 1)

	perms := data["permissions"].([]any)
	assert.Len(t, perms, 3)

	// Menu keeps menu and button kinds only, as a tree.
	menu := data["menu"].([]any)
	require.Len(t, menu, 1)
	root := menu[0].(map[string]any)
	assert.Equal(t, "system", root["code"])
	children := root["children"].([]any)
	require.Len(t, children, 1)
	assert.Equal(t, "user:create", children[0].(map[string]any)["code"])
}

func TestMeEndpointWithoutToken(t *testing.T) {
	router := testRouter(t, newStubRepo(), &rbacStoreStub{})

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestChangePasswordEndpoint(t *testing.T) {
	user := &User{ID: 1, Username: "jdoe", PasswordHash: hashOf(t, "old-password-1"), Status: 1}
	repo := newStubRepo(user)
	router := testRouter(t, repo, &rbacStoreStub{})

	svc := newTestService(repo)
	raw, _, err := svc.tokens.Issue(user)
	require.NoError(t, err)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/change-password",
		strings.NewReader(`{"old_password":"old-password-1","new_password":"new-password-1"}`))
	req.Header.Set("Authorization", "Bearer "+raw)
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.NotEmpty(t, repo.lastHash)
}
