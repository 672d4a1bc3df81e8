package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-admin/atlas-admin/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByLogin(ctx context.Context, login string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	CreateAccount(ctx context.Context, u User) (*User, error)
	TrackLogin(ctx context.Context, id int64, at time.Time, ip string) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const authUserColumns = `id, username, email, password_hash, nickname, status, created_at, updated_at`

func scanAuthUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Nickname,
		&u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByLogin fetches an account by username or email.
func (r *PGRepository) FindByLogin(ctx context.Context, login string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+authUserColumns+` FROM users WHERE username = $1 OR email = $1`, login)
	u, err := scanAuthUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// FindByID fetches an account by primary key.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+authUserColumns+` FROM users WHERE id = $1`, id)
	u, err := scanAuthUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// CreateAccount inserts a self-registered account.
func (r *PGRepository) CreateAccount(ctx context.Context, u User) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, nickname, status)
		VALUES ($1, $2, $3, $4, 1)
		RETURNING `+authUserColumns,
		u.Username, u.Email, u.PasswordHash, u.Nickname)
	created, err := scanAuthUser(row)
	if err != nil {
		return nil, mapAuthUniqueErr(err)
	}
	return created, nil
}

// TrackLogin records the time and origin address of a successful login.
func (r *PGRepository) TrackLogin(ctx context.Context, id int64, at time.Time, ip string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET last_login_at = $1, last_login_ip = $2 WHERE id = $3`,
		at.UTC(), ip, id)
	return err
}

// UpdatePassword replaces the stored credential hash.
func (r *PGRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`, hash, id)
	return err
}

var _ Repository = (*PGRepository)(nil)

func mapAuthUniqueErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: username or email already taken", shared.ErrConflict)
	}
	return err
}
