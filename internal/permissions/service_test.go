package permissions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-admin/atlas-admin/internal/shared"
)

type mockRepo struct {
	perms  map[int64]Permission
	nextID int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{perms: map[int64]Permission{}, nextID: 1}
}

func (m *mockRepo) Create(ctx context.Context, p Permission) (Permission, error) {
	p.ID = m.nextID
	m.nextID++
	m.perms[p.ID] = p
	return p, nil
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (Permission, error) {
	p, ok := m.perms[id]
	if !ok {
		return Permission{}, shared.ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := m.perms[id]
	return ok, nil
}

func (m *mockRepo) Update(ctx context.Context, id int64, patch UpdatePermissionRequest) (Permission, error) {
	p, ok := m.perms[id]
	if !ok {
		return Permission{}, shared.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.ParentID != nil {
		p.ParentID = *patch.ParentID
	}
	m.perms[id] = p
	return p, nil
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.perms[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.perms, id)
	return nil
}

func (m *mockRepo) ChildCount(ctx context.Context, id int64) (int, error) {
	children := 0
	for _, p := range m.perms {
		if p.ParentID == id {
			children++
		}
	}
	return children, nil
}

func (m *mockRepo) List(ctx context.Context, f Filter) ([]Permission, int, error) {
	var out []Permission
	for _, p := range m.perms {
		out = append(out, p)
	}
	return out, len(out), nil
}

func TestCreateRootPermission(t *testing.T) {
	svc := NewService(newMockRepo())

	p, err := svc.Create(context.Background(), CreatePermissionRequest{
		Code: "system", Name: "System", Type: TypeMenu, ParentID: RootParentID,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusEnabled, p.Status)
	assert.Equal(t, RootParentID, p.ParentID)
}

func TestCreateUnderMissingParent(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Create(context.Background(), CreatePermissionRequest{
		Code: "user:list", Name: "List users", Type: TypeAPI, ParentID: 99,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
}

func TestCreateUnderExistingParent(t *testing.T) {
	svc := NewService(newMockRepo())
	parent, err := svc.Create(context.Background(), CreatePermissionRequest{
		Code: "system", Name: "System", Type: TypeMenu,
	})
	require.NoError(t, err)

	child, err := svc.Create(context.Background(), CreatePermissionRequest{
		Code: "system:user", Name: "Users", Type: TypeMenu, ParentID: parent.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, parent.ID, child.ParentID)
}

func TestUpdateRejectsSelfParent(t *testing.T) {
	svc := NewService(newMockRepo())
	p, err := svc.Create(context.Background(), CreatePermissionRequest{
		Code: "system", Name: "System", Type: TypeMenu,
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), p.ID, UpdatePermissionRequest{ParentID: &p.ID})
	assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "own parent")
}

func TestDeleteWithChildren(t *testing.T) {
	svc := NewService(newMockRepo())
	parent, err := svc.Create(context.Background(), CreatePermissionRequest{
		Code: "system", Name: "System", Type: TypeMenu,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreatePermissionRequest{
		Code: "system:user", Name: "Users", Type: TypeMenu, ParentID: parent.ID,
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), parent.ID)
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestDeleteLeaf(t *testing.T) {
	svc := NewService(newMockRepo())
	p, err := svc.Create(context.Background(), CreatePermissionRequest{
		Code: "system", Name: "System", Type: TypeMenu,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), p.ID))
	_, err = svc.Get(context.Background(), p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
