package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/artem13815/webshop/pkg/auth"
)

const uniqueViolation = "23505"

// DB is the subset of *pgxpool.Pool used by repositories.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements auth.UserRepository backed by PostgreSQL (pgx).
type UserRepository struct {
	pool DB
}

func NewUserRepository(pool DB) *UserRepository {
	return &UserRepository{pool: pool}
}

const selectUser = `
		SELECT u.id, u.email, u.password_hash, u.full_name, u.phone, u.age, u.address, u.created_at,
		       COALESCE(array_agg(r.role_name ORDER BY r.role_name) FILTER (WHERE r.role_name IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN user_roles r ON r.user_id = u.id
`

// Create inserts the user and its roles in one transaction, so a failed role
// assignment leaves no user row behind.
func (r *UserRepository) Create(ctx context.Context, user auth.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, phone, age, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.ID, strings.ToLower(user.Email), user.PasswordHash, user.FullName, user.Phone, user.Age, user.Address, user.CreatedAt)
	if err != nil {
		_ = tx.Rollback(ctx)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return auth.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	for _, role := range user.Roles {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_name) VALUES ($1, $2)
		`, user.ID, role); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("assign role %q: %w", role, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return auth.ErrDuplicateEmail
		}
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	row := r.pool.QueryRow(ctx, selectUser+`
		WHERE lower(u.email) = lower($1)
		GROUP BY u.id
	`, strings.TrimSpace(email))
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (auth.User, error) {
	row := r.pool.QueryRow(ctx, selectUser+`
		WHERE u.id = $1
		GROUP BY u.id
	`, id)
	return scanUser(row)
}

func scanUser(row pgx.Row) (auth.User, error) {
	var user auth.User
	var createdAt time.Time
	if err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName,
		&user.Phone, &user.Age, &user.Address, &createdAt, &user.Roles,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.User{}, auth.ErrNotFound
		}
		return auth.User{}, fmt.Errorf("scan user: %w", err)
	}
	user.CreatedAt = createdAt.UTC()
	return user, nil
}
