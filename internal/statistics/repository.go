package statistics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort defines the aggregate queries behind the dashboard.
type RepositoryPort interface {
	Totals(ctx context.Context) (vehicles, scans, users, roles int, err error)
	ScansSince(ctx context.Context, since time.Time) (int, error)
	UnreviewedScans(ctx context.Context) (int, error)
	ScansGroupedBy(ctx context.Context, column string) ([]CountBucket, error)
	DailyScans(ctx context.Context, days int) ([]DayCount, error)
}

// Repository provides PostgreSQL backed aggregates.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Totals returns the headline entity counts in one round trip.
func (r *Repository) Totals(ctx context.Context) (vehicles, scans, users, roles int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM vehicles WHERE is_active),
			(SELECT COUNT(*) FROM scans),
			(SELECT COUNT(*) FROM users WHERE is_active),
			(SELECT COUNT(*) FROM roles WHERE is_active)
	`).Scan(&vehicles, &scans, &users, &roles)
	return vehicles, scans, users, roles, err
}

// ScansSince counts scans recorded at or after the given instant.
func (r *Repository) ScansSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM scans WHERE scanned_at >= $1`, since).Scan(&count)
	return count, err
}

// UnreviewedScans counts scans still awaiting review.
func (r *Repository) UnreviewedScans(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM scans WHERE NOT reviewed`).Scan(&count)
	return count, err
}

// ScansGroupedBy aggregates scan counts per vehicle_type or tax_status.
func (r *Repository) ScansGroupedBy(ctx context.Context, column string) ([]CountBucket, error) {
	// column comes from a fixed internal whitelist, never from user input.
	query := "SELECT COALESCE(" + column + ", 'unknown'), COUNT(*) FROM scans GROUP BY 1 ORDER BY 2 DESC, 1 ASC"
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []CountBucket
	for rows.Next() {
		var bucket CountBucket
		if err := rows.Scan(&bucket.Label, &bucket.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, bucket)
	}
	return buckets, rows.Err()
}

// DailyScans returns the per-day scan counts for the trailing window,
// including zero-count days.
func (r *Repository) DailyScans(ctx context.Context, days int) ([]DayCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d::date::text, COALESCE(s.count, 0)
		FROM generate_series(CURRENT_DATE - ($1::int - 1), CURRENT_DATE, INTERVAL '1 day') d
		LEFT JOIN (
			SELECT scanned_at::date AS day, COUNT(*) AS count
			FROM scans
			WHERE scanned_at >= CURRENT_DATE - ($1::int - 1)
			GROUP BY 1
		) s ON s.day = d::date
		ORDER BY d
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series []DayCount
	for rows.Next() {
		var day DayCount
		if err := rows.Scan(&day.Date, &day.Count); err != nil {
			return nil, err
		}
		series = append(series, day)
	}
	return series, rows.Err()
}

var _ RepositoryPort = (*Repository)(nil)
