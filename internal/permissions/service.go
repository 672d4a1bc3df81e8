package permissions

import (
	"context"
	"fmt"

	"github.com/atlas-admin/atlas-admin/internal/shared"
)

// RepositoryPort defines data access methods for permissions.
type RepositoryPort interface {
	Create(ctx context.Context, p Permission) (Permission, error)
	GetByID(ctx context.Context, id int64) (Permission, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, id int64, patch UpdatePermissionRequest) (Permission, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter) ([]Permission, int, error)
	ChildCount(ctx context.Context, id int64) (int, error)
}

// Service handles permission business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create inserts a new permission after validating its parent reference.
func (s *Service) Create(ctx context.Context, req CreatePermissionRequest) (Permission, error) {
	if err := s.checkParent(ctx, req.ParentID, 0); err != nil {
		return Permission{}, err
	}
	status := StatusEnabled
	if req.Status != nil {
		status = *req.Status
	}
	return s.repo.Create(ctx, Permission{
		Code:      req.Code,
		Name:      req.Name,
		Type:      req.Type,
		ParentID:  req.ParentID,
		Path:      req.Path,
		Method:    req.Method,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
		Status:    status,
	})
}

// Get fetches one permission.
func (s *Service) Get(ctx context.Context, id int64) (Permission, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial patch. A parent change is validated first:
// self-parenting and dangling references are rejected before any write.
func (s *Service) Update(ctx context.Context, id int64, req UpdatePermissionRequest) (Permission, error) {
	if req.ParentID != nil {
		if err := s.checkParent(ctx, *req.ParentID, id); err != nil {
			return Permission{}, err
		}
	}
	return s.repo.Update(ctx, id, req)
}

// Delete removes a permission unless it still has children. The
// repository re-checks inside the delete transaction to close the race
// with a concurrent child insert.
func (s *Service) Delete(ctx context.Context, id int64) error {
	children, err := s.repo.ChildCount(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("%w: permission %d has %d child permission(s)", shared.ErrConflict, id, children)
	}
	return s.repo.Delete(ctx, id)
}

// List returns one page of permissions with the total match count.
func (s *Service) List(ctx context.Context, f Filter) ([]Permission, int, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) checkParent(ctx context.Context, parentID, selfID int64) error {
	if parentID == RootParentID {
		return nil
	}
	if selfID != 0 && parentID == selfID {
		return fmt.Errorf("%w: permission cannot be its own parent", shared.ErrInvalidArgument)
	}
	exists, err := s.repo.Exists(ctx, parentID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: parent permission %d does not exist", shared.ErrInvalidArgument, parentID)
	}
	return nil
}
