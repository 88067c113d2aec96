package scans

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

var sortColumns = map[string]string{
	"plateNumber": "plate_number",
	"vehicleType": "vehicle_type",
	"taxStatus":   "tax_status",
	"scannedAt":   "scanned_at",
	"createdAt":   "created_at",
}

// RepositoryPort defines data access methods for scans.
type RepositoryPort interface {
	List(ctx context.Context, filters ListFilters) ([]Scan, int, error)
	Get(ctx context.Context, id int64) (*Scan, error)
	Create(ctx context.Context, scan Scan) (*Scan, error)
	MarkReviewed(ctx context.Context, id int64) (*Scan, error)
	Recent(ctx context.Context, limit int) ([]Scan, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const scanColumns = `id, plate_number, vehicle_type, color, owner_name, tax_status, location, metadata, reviewed, scanned_at, created_at`

// List returns scans matching the filters plus the total count.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Scan, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if filters.Plate != "" {
		conditions = append(conditions, fmt.Sprintf("plate_number ILIKE $%d", argPos))
		args = append(args, "%"+filters.Plate+"%")
		argPos++
	}
	if filters.VehicleType != "" {
		conditions = append(conditions, fmt.Sprintf("vehicle_type = $%d", argPos))
		args = append(args, filters.VehicleType)
		argPos++
	}
	if filters.TaxStatus != "" {
		conditions = append(conditions, fmt.Sprintf("tax_status = $%d", argPos))
		args = append(args, filters.TaxStatus)
		argPos++
	}
	if filters.Reviewed != nil {
		conditions = append(conditions, fmt.Sprintf("reviewed = $%d", argPos))
		args = append(args, *filters.Reviewed)
		argPos++
	}
	if filters.From != nil {
		conditions = append(conditions, fmt.Sprintf("scanned_at >= $%d", argPos))
		args = append(args, *filters.From)
		argPos++
	}
	if filters.To != nil {
		conditions = append(conditions, fmt.Sprintf("scanned_at <= $%d", argPos))
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

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM scans %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "scanned_at"
	if column, ok := sortColumns[filters.SortBy]; ok {
		orderBy = column
	}
	direction := "DESC"
	if filters.SortDir == "asc" {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM scans
		%s
		ORDER BY %s %s, id %s
		LIMIT $%d OFFSET $%d
	`, scanColumns, whereClause, orderBy, direction, direction, argPos, argPos+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		scan, err := scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		scans = append(scans, scan)
	}
	return scans, total, rows.Err()
}

// Get fetches a scan by ID.
func (r *Repository) Get(ctx context.Context, id int64) (*Scan, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM scans WHERE id = $1`, scanColumns), id)
	scan, err := scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &scan, nil
}

// Create inserts a detection event.
func (r *Repository) Create(ctx context.Context, scan Scan) (*Scan, error) {
	var metadata any
	if len(scan.Metadata) > 0 {
		metadata = []byte(scan.Metadata)
	}
	var scannedAt any
	if !scan.ScannedAt.IsZero() {
		scannedAt = scan.ScannedAt
	}
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO scans (plate_number, vehicle_type, color, owner_name, tax_status, location, metadata, reviewed, scanned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, COALESCE($8, NOW()))
		RETURNING id
	`, scan.PlateNumber, scan.VehicleType, scan.Color, scan.OwnerName, scan.TaxStatus, scan.Location, metadata, scannedAt).Scan(&id)
	if err != nil {
		return nil, db.TranslateError(err)
	}
	return r.Get(ctx, id)
}

// MarkReviewed flips the reviewed flag, the only mutation scans allow.
func (r *Repository) MarkReviewed(ctx context.Context, id int64) (*Scan, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE scans SET reviewed = TRUE WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Recent returns the newest scans.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Scan, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM scans ORDER BY scanned_at DESC, id DESC LIMIT $1
	`, scanColumns), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		scan, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		scans = append(scans, scan)
	}
	return scans, rows.Err()
}

func scanRow(row pgx.Row) (Scan, error) {
	var scan Scan
	var ownerName, taxStatus, location pgtype.Text
	var metadata []byte
	var scannedAt, createdAt pgtype.Timestamptz
	err := row.Scan(
		&scan.ID, &scan.PlateNumber, &scan.VehicleType, &scan.Color,
		&ownerName, &taxStatus, &location, &metadata, &scan.Reviewed, &scannedAt, &createdAt,
	)
	if err != nil {
		return Scan{}, err
	}
	if ownerName.Valid {
		scan.OwnerName = &ownerName.String
	}
	if taxStatus.Valid {
		scan.TaxStatus = &taxStatus.String
	}
	if location.Valid {
		scan.Location = &location.String
	}
	if len(metadata) > 0 {
		scan.Metadata = metadata
	}
	if scannedAt.Valid {
		scan.ScannedAt = scannedAt.Time
	}
	if createdAt.Valid {
		scan.CreatedAt = createdAt.Time
	}
	return scan, nil
}

var _ RepositoryPort = (*Repository)(nil)
