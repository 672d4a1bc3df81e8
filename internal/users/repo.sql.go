package users

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

const userColumns = `id, username, email, password_hash, nickname, phone, avatar, status,
	last_login_at, last_login_ip, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for user accounts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Nickname, &u.Phone,
		&u.Avatar, &u.Status, &u.LastLoginAt, &u.LastLoginIP, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a new account. Username and email collisions surface as
// ErrConflict naming the offending field.
func (r *Repository) Create(ctx context.Context, u User) (User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, nickname, phone, avatar, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		u.Username, u.Email, u.PasswordHash, u.Nickname, u.Phone, u.Avatar, u.Status)
	created, err := scanUser(row)
	if err != nil {
		return User{}, mapUserUniqueErr(err)
	}
	return created, nil
}

// GetByID fetches an account by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, fmt.Errorf("%w: user %d", shared.ErrNotFound, id)
		}
		return User{}, err
	}
	return u, nil
}

// Update applies a partial patch. Returns ErrNotFound when the id is absent
// and ErrConflict when an email change collides.
func (r *Repository) Update(ctx context.Context, id int64, patch UpdateUserRequest) (User, error) {
	sets := []string{"updated_at = now()"}
	args := []interface{}{}
	argPos := 1

	if patch.Email != nil {
		sets = append(sets, fmt.Sprintf("email = $%d", argPos))
		args = append(args, *patch.Email)
		argPos++
	}
	if patch.Nickname != nil {
		sets = append(sets, fmt.Sprintf("nickname = $%d", argPos))
		args = append(args, *patch.Nickname)
		argPos++
	}
	if patch.Phone != nil {
		sets = append(sets, fmt.Sprintf("phone = $%d", argPos))
		args = append(args, *patch.Phone)
		argPos++
	}
	if patch.Avatar != nil {
		sets = append(sets, fmt.Sprintf("avatar = $%d", argPos))
		args = append(args, *patch.Avatar)
		argPos++
	}
	if patch.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *patch.Status)
		argPos++
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argPos, userColumns)
	args = append(args, id)

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, fmt.Errorf("%w: user %d", shared.ErrNotFound, id)
		}
		return User{}, mapUserUniqueErr(err)
	}
	return u, nil
}

// Delete removes an account. Association rows cascade at the schema level.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", shared.ErrNotFound, id)
	}
	return nil
}

// List returns a page of accounts matching the filter plus the total count.
func (r *Repository) List(ctx context.Context, f Filter) ([]User, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if f.Username != nil && *f.Username != "" {
		conditions = append(conditions, fmt.Sprintf("username ILIKE $%d", argPos))
		args = append(args, "%"+*f.Username+"%")
		argPos++
	}
	if f.Email != nil && *f.Email != "" {
		conditions = append(conditions, fmt.Sprintf("email ILIKE $%d", argPos))
		args = append(args, "%"+*f.Email+"%")
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
	if err := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM users %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, pageSize := shared.NormalizePage(f.Page, f.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY id LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argPos, argPos+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// ReplaceRoles swaps the full role set of a user inside one transaction.
// Every referenced role must exist; a missing id aborts before any write.
func (r *Repository) ReplaceRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: user %d", shared.ErrNotFound, userID)
		}

		if len(roleIDs) > 0 {
			rows, err := tx.Query(ctx, `SELECT id FROM roles WHERE id = ANY($1)`, roleIDs)
			if err != nil {
				return err
			}
			found := make(map[int64]struct{}, len(roleIDs))
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
			for _, id := range roleIDs {
				if _, ok := found[id]; !ok {
					return fmt.Errorf("%w: role %d", shared.ErrNotFound, id)
				}
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
			return err
		}
		for _, roleID := range dedupeIDs(roleIDs) {
			if _, err := tx.Exec(ctx, `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`, userID, roleID); err != nil {
				return err
			}
		}
		return nil
	})
}

// RoleIDs returns the ids of roles currently assigned to a user.
func (r *Repository) RoleIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT role_id FROM user_roles WHERE user_id = $1 ORDER BY role_id`, userID)
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

// UpdatePassword replaces the stored credential hash.
func (r *Repository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`, hash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", shared.ErrNotFound, id)
	}
	return nil
}

func mapUserUniqueErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "username"):
			return fmt.Errorf("%w: username already exists", shared.ErrConflict)
		case strings.Contains(pgErr.ConstraintName, "email"):
			return fmt.Errorf("%w: email already exists", shared.ErrConflict)
		default:
			return fmt.Errorf("%w: duplicate user", shared.ErrConflict)
		}
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
