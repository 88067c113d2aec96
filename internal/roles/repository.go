package roles

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

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	List(ctx context.Context) ([]Role, error)
	Get(ctx context.Context, id int64) (*Role, error)
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, role Role) (*Role, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) (*Role, error)
	Deactivate(ctx context.Context, id int64) error
	UserCount(ctx context.Context, id int64) (int, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const roleColumns = `
	r.id, r.name, r.description, r.can_view, r.can_edit, r.can_export, r.can_delete,
	r.is_active, r.created_at, r.updated_at,
	(SELECT COUNT(*) FROM users u WHERE u.role_id = r.id) AS user_count`

// List returns active roles with live user counts, oldest first.
func (r *Repository) List(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM roles r WHERE r.is_active ORDER BY r.created_at ASC, r.id ASC
	`, roleColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// Get fetches a role by ID regardless of active state.
func (r *Repository) Get(ctx context.Context, id int64) (*Role, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM roles r WHERE r.id = $1`, roleColumns), id)
	role, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// NameTaken checks name uniqueness across ALL roles, soft-deleted included.
// Names stay reserved after deactivation.
func (r *Repository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM roles WHERE LOWER(name) = LOWER($1) AND id <> $2`,
		name, excludeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new role.
func (r *Repository) Create(ctx context.Context, role Role) (*Role, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO roles (name, description, can_view, can_edit, can_export, can_delete, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING id
	`, role.Name, role.Description, role.CanView, role.CanEdit, role.CanExport, role.CanDelete).Scan(&id)
	if err != nil {
		return nil, db.TranslateError(err)
	}
	return r.Get(ctx, id)
}

// Update applies a partial update and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id int64, updates map[string]interface{}) (*Role, error) {
	if len(updates) == 0 {
		return r.Get(ctx, id)
	}
	query := "UPDATE roles SET updated_at = NOW()"
	var args []interface{}
	argPos := 1
	for _, column := range []string{"name", "description", "can_view", "can_edit", "can_export", "can_delete"} {
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

// Deactivate soft-deletes a role. The user-count check is repeated inside
// the transaction so a concurrent role assignment cannot slip past the
// service-level check.
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role_id = $1`, id).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %d user(s)", shared.ErrRoleInUse, count)
		}
		tag, err := tx.Exec(ctx, `UPDATE roles SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// UserCount counts users referencing the role.
func (r *Repository) UserCount(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role_id = $1`, id).Scan(&count)
	return count, err
}

func scanRole(row pgx.Row) (Role, error) {
	var role Role
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(
		&role.ID, &role.Name, &role.Description, &role.CanView, &role.CanEdit,
		&role.CanExport, &role.CanDelete, &role.IsActive, &createdAt, &updatedAt,
		&role.UserCount,
	)
	if err != nil {
		return Role{}, err
	}
	if createdAt.Valid {
		role.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		role.UpdatedAt = updatedAt.Time
	}
	return role, nil
}

var _ RepositoryPort = (*Repository)(nil)
