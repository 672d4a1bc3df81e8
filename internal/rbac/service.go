package rbac

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// Service derives a user's effective authorization surface. Every check
// re-reads from the store; nothing is cached in-process, trading latency
// for eliminated staleness. Concurrent duplicate lookups for the same
// user are collapsed into one store read.
type Service struct {
	store StorePort
	group singleflight.Group
}

// NewService constructs a Service.
func NewService(store StorePort) *Service {
	return &Service{store: store}
}

// GetUserRoles returns the enabled roles assigned to a user.
func (s *Service) GetUserRoles(ctx context.Context, userID int64) ([]Role, error) {
	v, err, _ := s.group.Do(fmt.Sprintf("roles:%d", userID), func() (any, error) {
		return s.store.UserRoles(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Role), nil
}

// GetUserPermissions returns the user's effective permission set: the
// deduplicated union of enabled permissions across all enabled roles.
// A permission reachable through several roles appears exactly once.
func (s *Service) GetUserPermissions(ctx context.Context, userID int64) ([]Permission, error) {
	v, err, _ := s.group.Do(fmt.Sprintf("perms:%d", userID), func() (any, error) {
		perms, err := s.store.UserPermissions(ctx, userID)
		if err != nil {
			return nil, err
		}
		return dedupePermissions(perms), nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Permission), nil
}

func dedupePermissions(perms []Permission) []Permission {
	seen := make(map[int64]struct{}, len(perms))
	out := make([]Permission, 0, len(perms))
	for _, p := range perms {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// PermissionCodes returns the effective permission set as bare codes.
func (s *Service) PermissionCodes(ctx context.Context, userID int64) ([]string, error) {
	perms, err := s.GetUserPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	codes := make([]string, len(perms))
	for i, p := range perms {
		codes[i] = p.Code
	}
	return codes, nil
}

// RoleCodes returns the user's enabled role codes.
func (s *Service) RoleCodes(ctx context.Context, userID int64) ([]string, error) {
	roles, err := s.GetUserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	codes := make([]string, len(roles))
	for i, role := range roles {
		codes[i] = role.Code
	}
	return codes, nil
}

// PermissionTree renders the enabled permission forest.
func (s *Service) PermissionTree(ctx context.Context) ([]*PermissionNode, error) {
	perms, err := s.store.EnabledPermissions(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(perms), nil
}

// UserPermissionTree renders the forest restricted to the user's
// effective permission set, the shape menus are built from.
func (s *Service) UserPermissionTree(ctx context.Context, userID int64) ([]*PermissionNode, error) {
	perms, err := s.GetUserPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildTree(perms), nil
}

// IsCodeUnique reports whether a permission code is free, ignoring the
// row identified by excludeID (0 for creation checks).
func (s *Service) IsCodeUnique(ctx context.Context, code string, excludeID int64) (bool, error) {
	exists, err := s.store.CodeExists(ctx, code, excludeID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}
