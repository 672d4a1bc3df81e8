package permissions

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

const permissionColumns = `id, code, name, type, parent_id, path, method, icon, sort_order,
	status, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for permissions.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanPermission(row pgx.Row) (Permission, error) {
	var p Permission
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Type, &p.ParentID, &p.Path, &p.Method,
		&p.Icon, &p.SortOrder, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create inserts a new permission. A code collision surfaces as ErrConflict.
func (r *Repository) Create(ctx context.Context, p Permission) (Permission, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO permissions (code, name, type, parent_id, path, method, icon, sort_order, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+permissionColumns,
		p.Code, p.Name, p.Type, p.ParentID, p.Path, p.Method, p.Icon, p.SortOrder, p.Status)
	created, err := scanPermission(row)
	if err != nil {
		return Permission{}, mapPermissionUniqueErr(err)
	}
	return created, nil
}

// GetByID fetches a permission by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (Permission, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+permissionColumns+` FROM permissions WHERE id = $1`, id)
	p, err := scanPermission(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Permission{}, fmt.Errorf("%w: permission %d", shared.ErrNotFound, id)
		}
		return Permission{}, err
	}
	return p, nil
}

// Exists reports whether a permission id is present.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM permissions WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// Update applies a partial patch to a permission.
func (r *Repository) Update(ctx context.Context, id int64, patch UpdatePermissionRequest) (Permission, error) {
	sets := []string{"updated_at = now()"}
	args := []interface{}{}
	argPos := 1

	if patch.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", argPos))
		args = append(args, *patch.Name)
		argPos++
	}
	if patch.Type != nil {
		sets = append(sets, fmt.Sprintf("type = $%d", argPos))
		args = append(args, *patch.Type)
		argPos++
	}
	if patch.ParentID != nil {
		sets = append(sets, fmt.Sprintf("parent_id = $%d", argPos))
		args = append(args, *patch.ParentID)
		argPos++
	}
	if patch.Path != nil {
		sets = append(sets, fmt.Sprintf("path = $%d", argPos))
		args = append(args, *patch.Path)
		argPos++
	}
	if patch.Method != nil {
		sets = append(sets, fmt.Sprintf("method = $%d", argPos))
		args = append(args, *patch.Method)
		argPos++
	}
	if patch.Icon != nil {
		sets = append(sets, fmt.Sprintf("icon = $%d", argPos))
		args = append(args, *patch.Icon)
		argPos++
	}
	if patch.SortOrder != nil {
		sets = append(sets, fmt.Sprintf("sort_order = $%d", argPos))
		args = append(args, *patch.SortOrder)
		argPos++
	}
	if patch.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *patch.Status)
		argPos++
	}

	query := fmt.Sprintf(`UPDATE permissions SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argPos, permissionColumns)
	args = append(args, id)

	p, err := scanPermission(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Permission{}, fmt.Errorf("%w: permission %d", shared.ErrNotFound, id)
		}
		return Permission{}, err
	}
	return p, nil
}

// ChildCount reports how many permissions name this one as parent.
func (r *Repository) ChildCount(ctx context.Context, id int64) (int, error) {
	var children int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM permissions WHERE parent_id = $1`, id).Scan(&children)
	return children, err
}

// Delete removes a permission. The service guards against deleting a
// parent; the transaction re-checks so a concurrent child insert cannot
// slip through.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var children int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM permissions WHERE parent_id = $1`, id).Scan(&children); err != nil {
			return err
		}
		if children > 0 {
			return fmt.Errorf("%w: permission %d has %d child permission(s)", shared.ErrConflict, id, children)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM permissions WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: permission %d", shared.ErrNotFound, id)
		}
		return nil
	})
}

// List returns a page of permissions matching the filter plus the total count.
func (r *Repository) List(ctx context.Context, f Filter) ([]Permission, int, error) {
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
	if f.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argPos))
		args = append(args, *f.Type)
		argPos++
	}
	if f.ParentID != nil {
		conditions = append(conditions, fmt.Sprintf("parent_id = $%d", argPos))
		args = append(args, *f.ParentID)
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
	if err := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM permissions %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, pageSize := shared.NormalizePage(f.Page, f.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM permissions %s ORDER BY sort_order, id LIMIT $%d OFFSET $%d`,
		permissionColumns, whereClause, argPos, argPos+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Permission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func mapPermissionUniqueErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: permission code already exists", shared.ErrConflict)
	}
	return err
}
