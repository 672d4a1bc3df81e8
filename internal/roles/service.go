package roles

import (
	"context"
	"fmt"

	"github.com/atlas-admin/atlas-admin/internal/shared"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	Create(ctx context.Context, role Role) (Role, error)
	GetByID(ctx context.Context, id int64) (Role, error)
	Update(ctx context.Context, id int64, patch UpdateRoleRequest) (Role, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter) ([]Role, int, error)
	ReplacePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error
	PermissionIDs(ctx context.Context, roleID int64) ([]int64, error)
	AssignedUserCount(ctx context.Context, roleID int64) (int, error)
}

// Service handles role business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create inserts a new role.
func (s *Service) Create(ctx context.Context, req CreateRoleRequest) (Role, error) {
	status := StatusEnabled
	if req.Status != nil {
		status = *req.Status
	}
	return s.repo.Create(ctx, Role{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
	})
}

// Get fetches one role.
func (s *Service) Get(ctx context.Context, id int64) (Role, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial patch to a role.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRoleRequest) (Role, error) {
	return s.repo.Update(ctx, id, req)
}

// Delete removes a role unless users still hold it. The repository
// re-checks inside the delete transaction to close the race with a
// concurrent assignment.
func (s *Service) Delete(ctx context.Context, id int64) error {
	assigned, err := s.repo.AssignedUserCount(ctx, id)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return fmt.Errorf("%w: role %d still assigned to %d user(s)", shared.ErrConflict, id, assigned)
	}
	return s.repo.Delete(ctx, id)
}

// List returns one page of roles with the total match count.
func (s *Service) List(ctx context.Context, f Filter) ([]Role, int, error) {
	return s.repo.List(ctx, f)
}

// AssignPermissions replaces the role's permission grants. An empty set
// clears all grants.
func (s *Service) AssignPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	return s.repo.ReplacePermissions(ctx, roleID, permissionIDs)
}

// GrantedPermissionIDs lists the ids of permissions granted to the role.
func (s *Service) GrantedPermissionIDs(ctx context.Context, roleID int64) ([]int64, error) {
	if _, err := s.repo.GetByID(ctx, roleID); err != nil {
		return nil, err
	}
	return s.repo.PermissionIDs(ctx, roleID)
}
