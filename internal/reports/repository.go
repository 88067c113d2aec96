package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort defines the aggregate queries behind range reports.
type RepositoryPort interface {
	DailyRows(ctx context.Context, from, to time.Time) ([]DayRow, error)
}

// Repository provides PostgreSQL backed aggregates.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// DailyRows returns per-day scan and review counts over the closed range.
func (r *Repository) DailyRows(ctx context.Context, from, to time.Time) ([]DayRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT scanned_at::date::text AS day,
		       COUNT(*) AS scan_count,
		       COUNT(*) FILTER (WHERE reviewed) AS reviewed_count,
		       COUNT(*) FILTER (WHERE NOT reviewed) AS unreviewed_count
		FROM scans
		WHERE scanned_at >= $1 AND scanned_at < $2
		GROUP BY 1
		ORDER BY 1
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DayRow
	for rows.Next() {
		var row DayRow
		if err := rows.Scan(&row.Date, &row.ScanCount, &row.ReviewedCount, &row.UnreviewedCount); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

var _ RepositoryPort = (*Repository)(nil)
