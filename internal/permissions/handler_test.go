package permissions

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

// enabledStore serves the tree from the mock repository's contents.
type enabledStore struct {
	repo *mockRepo
}

func (s *enabledStore) UserRoles(ctx context.Context, userID int64) ([]rbac.Role, error) {
	return nil, nil
}

func (s *enabledStore) UserPermissions(ctx context.Context, userID int64) ([]rbac.Permission, error) {
	return s.EnabledPermissions(ctx)
}

func (s *enabledStore) EnabledPermissions(ctx context.Context) ([]rbac.Permission, error) {
	var out []rbac.Permission
	for _, p := range s.repo.perms {
		if p.Status != StatusEnabled {
			continue
		}
		out = append(out, rbac.Permission{
			ID: p.ID, Code: p.Code, Name: p.Name, Type: p.Type,
			ParentID: p.ParentID, SortOrder: p.SortOrder,
		})
	}
	return out, nil
}

func (s *enabledStore) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	for _, p := range s.repo.perms {
		if p.Code == code && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func testRouter(repo *mockRepo) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := rbac.NewService(&enabledStore{repo: repo})
	handler := NewHandler(logger, NewService(repo), resolver)
	gate := rbac.Middleware{Resolver: grantAll{}, Logger: logger}

	r := chi.NewRouter()
	r.Route("/permissions", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := shared.ContextWithIdentity(req.Context(), &shared.Identity{ID: 1})
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
		handler.MountRoutes(r, gate)
	})
	return r
}

func TestCreateAndTreeEndpoints(t *testing.T) {
	repo := newMockRepo()
	router := testRouter(repo)

	post := func(body string) *httptest.ResponseRecorder {
		res := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/permissions", strings.NewReader(body))
		router.ServeHTTP(res, req)
		return res
	}

	require.Equal(t, http.StatusOK, post(`{"code":"system","name":"System","type":"menu","sort_order":1}`).Code)
	require.Equal(t, http.StatusOK, post(`{"code":"system:user","name":"Users","type":"menu","parent_id":1,"sort_order":1}`).Code)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/permissions/tree", nil))
	require.Equal(t, http.StatusOK, res.Code)

	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &env))
	forest := env.Data.([]any)
	require.Len(t, forest, 1)
	root := forest[0].(map[string]any)
	assert.Equal(t, "system", root["code"])
	require.Len(t, root["children"], 1)
}

func TestTreeOmitsDisabled(t *testing.T) {
	repo := newMockRepo()
	_, err := repo.Create(context.Background(), Permission{Code: "system", Name: "System", Type: TypeMenu, Status: StatusEnabled, SortOrder: 1})
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), Permission{Code: "hidden", Name: "Hidden", Type: TypeMenu, Status: StatusDisabled, SortOrder: 2})
	require.NoError(t, err)
	router := testRouter(repo)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/permissions/tree", nil))
	require.Equal(t, http.StatusOK, res.Code)

	assert.Contains(t, res.Body.String(), `"system"`)
	assert.NotContains(t, res.Body.String(), `"hidden"`)
}

func TestCreateDuplicateCodeEndpoint(t *testing.T) {
	router := testRouter(newMockRepo())

	post := func(body string) *httptest.ResponseRecorder {
		res := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/permissions", strings.NewReader(body))
		router.ServeHTTP(res, req)
		return res
	}

	require.Equal(t, http.StatusOK, post(`{"code":"system","name":"System","type":"menu"}`).Code)
	res := post(`{"code":"system","name":"Duplicate","type":"menu"}`)
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Contains(t, res.Body.String(), "already exists")
}

func TestCreateInvalidType(t *testing.T) {
	router := testRouter(newMockRepo())

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/permissions",
		strings.NewReader(`{"code":"x:y","name":"X","type":"widget"}`))
	router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestDeleteParentConflictEndpoint(t *testing.T) {
	repo := newMockRepo()
	router := testRouter(repo)

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/permissions",
		strings.NewReader(`{"code":"system","name":"System","type":"menu"}`))
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	res = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/permissions",
		strings.NewReader(`{"code":"system:user","name":"Users","type":"menu","parent_id":1}`))
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	res = httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodDelete, "/permissions/1", nil))
	assert.Equal(t, http.StatusConflict, res.Code)
}
