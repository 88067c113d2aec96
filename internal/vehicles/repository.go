package vehicles

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

// Sortable columns whitelisted for the listing. Anything else falls back to
// created_at.
var sortColumns = map[string]string{
	"plateNumber": "plate_number",
	"vehicleType": "vehicle_type",
	"taxStatus":   "tax_status",
	"createdAt":   "created_at",
}

// RepositoryPort defines data access methods for vehicles.
type RepositoryPort interface {
	List(ctx context.Context, filters ListFilters) ([]Vehicle, int, error)
	Get(ctx context.Context, id int64) (*Vehicle, error)
	Create(ctx context.Context, vehicle Vehicle) (*Vehicle, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) (*Vehicle, error)
	Deactivate(ctx context.Context, id int64) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns vehicles matching the filters plus the total count.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Vehicle, int, error) {
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
	if filters.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argPos))
		args = append(args, *filters.IsActive)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM vehicles %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "created_at"
	if column, ok := sortColumns[filters.SortBy]; ok {
		orderBy = column
	}
	direction := "ASC"
	if filters.SortDir == "desc" {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT id, plate_number, vehicle_type, color, owner_name, tax_status, tax_due_date,
		       is_active, created_at, updated_at
		FROM vehicles
		%s
		ORDER BY %s %s, id %s
		LIMIT $%d OFFSET $%d
	`, whereClause, orderBy, direction, direction, argPos, argPos+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, err
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, total, rows.Err()
}

// Get fetches a vehicle by ID.
func (r *Repository) Get(ctx context.Context, id int64) (*Vehicle, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, plate_number, vehicle_type, color, owner_name, tax_status, tax_due_date,
		       is_active, created_at, updated_at
		FROM vehicles
		WHERE id = $1
	`, id)
	vehicle, err := scanVehicle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// Create inserts a new vehicle; the plate number is unique.
func (r *Repository) Create(ctx context.Context, vehicle Vehicle) (*Vehicle, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO vehicles (plate_number, vehicle_type, color, owner_name, tax_status, tax_due_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING id
	`, vehicle.PlateNumber, vehicle.VehicleType, vehicle.Color, vehicle.OwnerName, vehicle.TaxStatus, vehicle.TaxDueDate).Scan(&id)
	if err != nil {
		return nil, db.TranslateError(err)
	}
	return r.Get(ctx, id)
}

// Update applies a partial update and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id int64, updates map[string]interface{}) (*Vehicle, error) {
	if len(updates) == 0 {
		return r.Get(ctx, id)
	}
	query := "UPDATE vehicles SET updated_at = NOW()"
	var args []interface{}
	argPos := 1
	for _, column := range []string{"vehicle_type", "color", "owner_name", "tax_status", "tax_due_date"} {
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

// Deactivate soft-deletes a vehicle.
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE vehicles SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanVehicle(row pgx.Row) (Vehicle, error) {
	var vehicle Vehicle
	var ownerName pgtype.Text
	var taxDueDate pgtype.Date
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(
		&vehicle.ID, &vehicle.PlateNumber, &vehicle.VehicleType, &vehicle.Color,
		&ownerName, &vehicle.TaxStatus, &taxDueDate, &vehicle.IsActive, &createdAt, &updatedAt,
	)
	if err != nil {
		return Vehicle{}, err
	}
	if ownerName.Valid {
		vehicle.OwnerName = &ownerName.String
	}
	if taxDueDate.Valid {
		due := taxDueDate.Time
		vehicle.TaxDueDate = &due
	}
	if createdAt.Valid {
		vehicle.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		vehicle.UpdatedAt = updatedAt.Time
	}
	return vehicle, nil
}

var _ RepositoryPort = (*Repository)(nil)
