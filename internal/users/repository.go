package users

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

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context, filters ListFilters) ([]User, int, error)
	Get(ctx context.Context, id int64) (*User, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) (*User, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns users with their role names plus the total count.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]User, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(u.username ILIKE $%d OR u.email ILIKE $%d OR u.name ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, pattern)
		argPos++
	}
	if filters.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("u.is_active = $%d", argPos))
		args = append(args, *filters.IsActive)
		argPos++
	}
	if filters.RoleID != nil {
		conditions = append(conditions, fmt.Sprintf("u.role_id = $%d", argPos))
		args = append(args, *filters.RoleID)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM users u %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT u.id, u.username, u.email, u.name, u.avatar, u.is_active, u.role_id, r.name,
		       u.created_at, u.updated_at
		FROM users u
		JOIN roles r ON r.id = u.role_id
		%s
		ORDER BY u.created_at ASC, u.id ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

// Get fetches a user by ID.
func (r *Repository) Get(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT u.id, u.username, u.email, u.name, u.avatar, u.is_active, u.role_id, r.name,
		       u.created_at, u.updated_at
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1
	`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update applies a partial update and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id int64, updates map[string]interface{}) (*User, error) {
	if len(updates) == 0 {
		return r.Get(ctx, id)
	}
	query := "UPDATE users SET updated_at = NOW()"
	var args []interface{}
	argPos := 1
	for _, column := range []string{"name", "email", "role_id", "is_active"} {
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
	return r.Get(ctx, id)
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	var avatar pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Name, &avatar, &user.IsActive,
		&user.RoleID, &user.RoleName, &createdAt, &updatedAt,
	)
	if err != nil {
		return User{}, err
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
	return user, nil
}

var _ RepositoryPort = (*Repository)(nil)
