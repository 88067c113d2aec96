package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/platform/db"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	IdentifierTaken(ctx context.Context, username, email string, excludeID int64) (bool, error)
	DefaultRoleID(ctx context.Context) (int64, error)
	CreateUser(ctx context.Context, user *User) (*User, error)
	UpdateUser(ctx context.Context, id int64, updates map[string]interface{}) (*User, error)
}

const userColumns = `
	u.id, u.username, u.email, u.name, u.password_hash, u.avatar, u.is_active, u.role_id,
	u.created_at, u.updated_at,
	r.id, r.name, r.can_view, r.can_edit, r.can_export, r.can_delete, r.is_active`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByIdentifier fetches a user matching the given username or email.
func (r *PGRepository) FindByIdentifier(ctx context.Context, identifier string) (*User, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.username = $1 OR u.email = $1
	`, userColumns), identifier)
	return scanUser(row)
}

// FindByID fetches a user by primary key.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1
	`, userColumns), id)
	return scanUser(row)
}

// IdentifierTaken reports whether another user already holds the username or email.
func (r *PGRepository) IdentifierTaken(ctx context.Context, username, email string, excludeID int64) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE (username = $1 OR email = $2) AND id <> $3`,
		username, email, excludeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DefaultRoleID resolves the role assigned to self-registered accounts.
func (r *PGRepository) DefaultRoleID(ctx context.Context) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM roles WHERE name = 'Viewer' AND is_active ORDER BY id LIMIT 1`).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

// CreateUser inserts a new account and returns it with the role attached.
func (r *PGRepository) CreateUser(ctx context.Context, user *User) (*User, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, name, password_hash, avatar, is_active, role_id)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6)
		RETURNING id
	`, user.Username, user.Email, user.Name, user.PasswordHash, user.Avatar, user.RoleID).Scan(&id)
	if err != nil {
		return nil, db.TranslateError(err)
	}
	return r.FindByID(ctx, id)
}

// UpdateUser applies a partial update and returns the fresh row.
func (r *PGRepository) UpdateUser(ctx context.Context, id int64, updates map[string]interface{}) (*User, error) {
	if len(updates) == 0 {
		return r.FindByID(ctx, id)
	}
	query := "UPDATE users SET updated_at = NOW()"
	var args []interface{}
	argPos := 1
	for _, column := range []string{"username", "email", "name", "password_hash", "avatar", "is_active", "role_id"} {
		if v, ok := updates[column]; ok {
			query += fmt.Sprintf(", %s = $%d", column, argPos)
			args = append(args, v)
			argPos++
		}
	}
	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, db.TranslateError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func scanUser(row pgx.Row) (*User, error) {
	var user User
	var avatar pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Name, &user.PasswordHash, &avatar,
		&user.IsActive, &user.RoleID, &createdAt, &updatedAt,
		&user.Role.ID, &user.Role.Name, &user.Role.CanView, &user.Role.CanEdit,
		&user.Role.CanExport, &user.Role.CanDelete, &user.Role.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if avatar.Valid {
		user.Avatar = &avatar.String
	}
	if createdAt.Valid {
		user.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	}
	return &user, nil
}

var _ Repository = (*PGRepository)(nil)
