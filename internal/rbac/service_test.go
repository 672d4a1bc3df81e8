package rbac

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	roles []Role
	perms []Permission
	codes map[string]bool
}

func (s *stubStore) UserRoles(ctx context.Context, userID int64) ([]Role, error) {
	return s.roles, nil
}

func (s *stubStore) UserPermissions(ctx context.Context, userID int64) ([]Permission, error) {
	return s.perms, nil
}

func (s *stubStore) EnabledPermissions(ctx context.Context) ([]Permission, error) {
	return s.perms, nil
}

func (s *stubStore) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	return s.codes[code], nil
}

func TestPermissionCodes(t *testing.T) {
	svc := NewService(&stubStore{perms: []Permission{
		{ID: 1, Code: "user:list"},
		{ID: 2, Code: "user:create"},
	}})

	codes, err := svc.PermissionCodes(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"user:list", "user:create"}, codes)
}

func TestGetUserPermissionsCollapsesDuplicates(t *testing.T) {
	svc := NewService(&stubStore{perms: []Permission{
		{ID: 1, Code: "user:list", SortOrder: 1},
		{ID: 1, Code: "user:list", SortOrder: 1},
		{ID: 2, Code: "user:create", SortOrder: 2},
	}})

	perms, err := svc.GetUserPermissions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, perms, 2)
	assert.Equal(t, []Permission{
		{ID: 1, Code: "user:list", SortOrder: 1},
		{ID: 2, Code: "user:create", SortOrder: 2},
	}, perms)
}

func TestRoleCodes(t *testing.T) {
	svc := NewService(&stubStore{roles: []Role{{ID: 1, Code: "super_admin"}}})

	codes, err := svc.RoleCodes(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"super_admin"}, codes)
}

func TestUserPermissionTree(t *testing.T) {
	svc := NewService(&stubStore{perms: []Permission{
		{ID: 1, Code: "system", ParentID: 0, SortOrder: 1},
		{ID: 2, Code: "system:user", ParentID: 1, SortOrder: 1},
	}})

	forest, err := svc.UserPermissionTree(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, "system:user", forest[0].Children[0].Code)
}

func TestIsCodeUnique(t *testing.T) {
	svc := NewService(&stubStore{codes: map[string]bool{"user:list": true}})

	unique, err := svc.IsCodeUnique(context.Background(), "user:list", 0)
	require.NoError(t, err)
	assert.False(t, unique)

	unique, err = svc.IsCodeUnique(context.Background(), "user:export", 0)
	require.NoError(t, err)
	assert.True(t, unique)
}
