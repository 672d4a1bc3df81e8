package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-admin/atlas-admin/internal/platform/db"
	"github.com/atlas-admin/atlas-admin/internal/shared"
)

const roleColumns = `id, code, name, description, status, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for roles.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanRole(row pgx.Row) (Role, error) {
	var role Role
	err := row.Scan(&role.ID, &role.Code, &role.Name, &role.Description, &role.Status,
		&role.CreatedAt, &role.UpdatedAt)
	return role, err
}

// Create inserts a new role. A code collision surfaces as ErrConflict.
func (r *Repository) Create(ctx context.Context, role Role) (Role, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO roles (code, name, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+roleColumns,
		role.Code, role.Name, role.Description, role.Status)
	created, err := scanRole(row)
	if err != nil {
		return Role{}, mapRoleUniqueErr(err)
	}
	return created, nil
}

// GetByID fetches a role by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id)
	role, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, fmt.Errorf("%w: role %d", shared.ErrNotFound, id)
		}
		return Role{}, err
	}
	return role, nil
}

// Update applies a partial patch to a role.
func (r *Repository) Update(ctx context.Context, id int64, patch UpdateRoleRequest) (Role, error) {
	sets := []string{"updated_at = now()"}
	args := []interface{}{}
	argPos := 1

	if patch.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *patch.Name)
		argPos++
	}
	if patch.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", argPos))
		args = append(args, *patch.Description)
		argPos++
	}
	if patch.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *patch.Status)
		argPos++
	}

	query := fmt.Sprintf(`UPDATE roles SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argPos, roleColumns)
	args = append(args, id)

	role, err := scanRole(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, fmt.Errorf("%w: role %d", shared.ErrNotFound, id)
		}
		return Role{}, err
	}
	return role, nil
}

// AssignedUserCount reports how many users currently hold the role.
func (r *Repository) AssignedUserCount(ctx context.Context, roleID int64) (int, error) {
	var assigned int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_roles WHERE role_id = $1`, roleID).Scan(&assigned)
	return assigned, err
}

// Delete removes a role. The service guards against deleting a held role;
// the transaction re-checks so a concurrent assignment cannot slip through.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var assigned int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM user_roles WHERE role_id = $1`, id).Scan(&assigned); err != nil {
			return err
		}
		if assigned > 0 {
			return fmt.Errorf("%w: role %d still assigned to %d user(s)", shared.ErrConflict, id, assigned)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: role %d", shared.ErrNotFound, id)
		}
		return nil
	})
}

// List returns a page of roles matching the filter plus the total count.
func (r *Repository) List(ctx context.Context, f Filter) ([]Role, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if f.Code != nil && *f.Code != "" {
		conditions = append(conditions, fmt.Sprintf("code ILIKE $%d", argPos))
		args = append(args, "%"+*f.Code+"%")
		argPos++
	}
	if f.Name != nil && *f.Name != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argPos))
		args = append(args, "%"+*f.Name+"%")
		argPos++
	}
	if f.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *f.Status)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM roles %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, pageSize := shared.NormalizePage(f.Page, f.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM roles %s ORDER BY id LIMIT $%d OFFSET $%d`,
		roleColumns, whereClause, argPos, argPos+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, role)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// ReplacePermissions swaps the full permission set of a role inside one
// transaction. Every referenced permission must exist.
func (r *Repository) ReplacePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`, roleID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: role %d", shared.ErrNotFound, roleID)
		}

		if len(permissionIDs) > 0 {
			rows, err := tx.Query(ctx, `SELECT id FROM permissions WHERE id = ANY($1)`, permissionIDs)
			if err != nil {
				return err
			}
			found := make(map[int64]struct{}, len(permissionIDs))
			for rows.Next() {
				var id int64
				if err := rows.Scan(&id); err != nil {
					rows.Close()
					return err
				}
				found[id] = struct{}{}
			}
			rows.Close()
			if err := rows.Err(); err != nil {
				return err
			}
			for _, id := range permissionIDs {
				if _, ok := found[id]; !ok {
					return fmt.Errorf("%w: permission %d", shared.ErrNotFound, id)
				}
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
			return err
		}
		for _, permID := range dedupeIDs(permissionIDs) {
			if _, err := tx.Exec(ctx, `INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)`, roleID, permID); err != nil {
				return err
			}
		}
		return nil
	})
}

// PermissionIDs returns the ids of permissions currently granted to a role.
func (r *Repository) PermissionIDs(ctx context.Context, roleID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT permission_id FROM role_permissions WHERE role_id = $1 ORDER BY permission_id`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func mapRoleUniqueErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: role code already exists", shared.ErrConflict)
	}
	return err
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
