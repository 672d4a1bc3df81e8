package rbac

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StorePort defines the reads the resolver performs.
type StorePort interface {
	UserRoles(ctx context.Context, userID int64) ([]Role, error)
	UserPermissions(ctx context.Context, userID int64) ([]Permission, error)
	EnabledPermissions(ctx context.Context) ([]Permission, error)
	CodeExists(ctx context.Context, code string, excludeID int64) (bool, error)
}

// Store provides PostgreSQL backed reads for the resolver.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// UserRoles returns the enabled roles assigned to a user.
func (s *Store) UserRoles(ctx context.Context, userID int64) ([]Role, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.code, r.name
		FROM roles r
		INNER JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1 AND r.status = 1
		ORDER BY r.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Code, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// UserPermissions returns the deduplicated enabled permissions reachable
// from a user through its enabled roles, ordered by (sort_order, id).
func (s *Store) UserPermissions(ctx context.Context, userID int64) ([]Permission, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT p.id, p.code, p.name, p.type, p.parent_id, p.path, p.method,
			p.icon, p.sort_order
		FROM permissions p
		INNER JOIN role_permissions rp ON rp.permission_id = p.id
		INNER JOIN roles r ON r.id = rp.role_id AND r.status = 1
		INNER JOIN user_roles ur ON ur.role_id = rp.role_id
		WHERE ur.user_id = $1 AND p.status = 1
		ORDER BY p.sort_order, p.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPermissions(rows)
}

// EnabledPermissions returns every enabled permission ordered by
// (sort_order, id), the input shape BuildTree expects.
func (s *Store) EnabledPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, code, name, type, parent_id, path, method, icon, sort_order
		FROM permissions
		WHERE status = 1
		ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPermissions(rows)
}

// CodeExists reports whether a permission code is taken by a row other
// than excludeID.
func (s *Store) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM permissions WHERE code = $1 AND id <> $2)`,
		code, excludeID).Scan(&exists)
	return exists, err
}

func collectPermissions(rows pgx.Rows) ([]Permission, error) {
	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Type, &p.ParentID, &p.Path,
			&p.Method, &p.Icon, &p.SortOrder); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

var _ StorePort = (*Store)(nil)
