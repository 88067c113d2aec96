package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListFilters narrows the activity listing.
type ListFilters struct {
	UserID *int64
	Action string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// RepositoryPort defines data access methods for the activity trail.
type RepositoryPort interface {
	List(ctx context.Context, filters ListFilters) ([]Entry, int, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns activity entries newest first together with the total count.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Entry, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if filters.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("a.user_id = $%d", argPos))
		args = append(args, *filters.UserID)
		argPos++
	}
	if filters.Action != "" {
		conditions = append(conditions, fmt.Sprintf("a.action = $%d", argPos))
		args = append(args, filters.Action)
		argPos++
	}
	if filters.From != nil {
		conditions = append(conditions, fmt.Sprintf("a.created_at >= $%d", argPos))
		args = append(args, *filters.From)
		argPos++
	}
	if filters.To != nil {
		conditions = append(conditions, fmt.Sprintf("a.created_at <= $%d", argPos))
		args = append(args, *filters.To)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM activity_logs a %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT a.id, a.user_id, COALESCE(u.username, ''), a.action, a.ip, a.user_agent, a.created_at
		FROM activity_logs a
		LEFT JOIN users u ON u.id = a.user_id
		%s
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var userID pgtype.Int8
		var createdAt pgtype.Timestamptz
		if err := rows.Scan(&entry.ID, &userID, &entry.Username, &entry.Action, &entry.IP, &entry.UserAgent, &createdAt); err != nil {
			return nil, 0, err
		}
		if userID.Valid {
			entry.UserID = &userID.Int64
		}
		if createdAt.Valid {
			entry.CreatedAt = createdAt.Time
		}
		entries = append(entries, entry)
	}
	return entries, total, rows.Err()
}

var _ RepositoryPort = (*Repository)(nil)
