package vehicles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/activity"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

// ActivityRecorder persists audit entries for state-changing calls.
type ActivityRecorder interface {
	Record(ctx context.Context, entry activity.Entry) error
}

// Service handles vehicle registry logic.
type Service struct {
	repo     RepositoryPort
	activity ActivityRecorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, recorder ActivityRecorder) *Service {
	return &Service{repo: repo, activity: recorder}
}

// Result bundles vehicles with paging metadata.
type Result struct {
	Vehicles   []Vehicle
	Pagination shared.Pagination
}

// List returns a page of vehicles matching the filters.
func (s *Service) List(ctx context.Context, filters ListFilters, page shared.PageRequest) (Result, error) {
	filters.Limit = page.PerPage
	filters.Offset = page.Offset()
	vehicles, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return Result{}, err
	}
	if vehicles == nil {
		vehicles = []Vehicle{}
	}
	return Result{
		Vehicles:   vehicles,
		Pagination: shared.NewPagination(page.Page, page.PerPage, total),
	}, nil
}

// Get fetches a single vehicle.
func (s *Service) Get(ctx context.Context, id int64) (*Vehicle, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new vehicle. Plate numbers are stored uppercase and
// must be unique.
func (s *Service) Create(ctx context.Context, req CreateVehicleRequest, actor *shared.Identity, ip, ua string) (*Vehicle, error) {
	plate := strings.ToUpper(strings.TrimSpace(req.PlateNumber))
	if plate == "" {
		return nil, fmt.Errorf("%w: plate number required", shared.ErrValidation)
	}

	taxStatus := req.TaxStatus
	if taxStatus == "" {
		taxStatus = TaxStatusUnknown
	}

	vehicle := Vehicle{
		PlateNumber: plate,
		VehicleType: strings.TrimSpace(req.VehicleType),
		Color:       strings.TrimSpace(req.Color),
		OwnerName:   req.OwnerName,
		TaxStatus:   taxStatus,
	}
	if req.TaxDueDate != nil {
		due, err := time.Parse("2006-01-02", *req.TaxDueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: taxDueDate must be YYYY-MM-DD", shared.ErrValidation)
		}
		vehicle.TaxDueDate = &due
	}

	created, err := s.repo.Create(ctx, vehicle)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actor, activity.ActionVehicleCreate, ip, ua)
	return created, nil
}

// Update applies a partial update to a vehicle.
func (s *Service) Update(ctx context.Context, id int64, req UpdateVehicleRequest, actor *shared.Identity, ip, ua string) (*Vehicle, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.VehicleType != nil {
		updates["vehicle_type"] = strings.TrimSpace(*req.VehicleType)
	}
	if req.Color != nil {
		updates["color"] = strings.TrimSpace(*req.Color)
	}
	if req.OwnerName != nil {
		updates["owner_name"] = *req.OwnerName
	}
	if req.TaxStatus != nil {
		updates["tax_status"] = *req.TaxStatus
	}
	if req.TaxDueDate != nil {
		due, err := time.Parse("2006-01-02", *req.TaxDueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: taxDueDate must be YYYY-MM-DD", shared.ErrValidation)
		}
		updates["tax_due_date"] = due
	}

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actor, activity.ActionVehicleUpdate, ip, ua)
	return updated, nil
}

// Remove soft-deletes a vehicle.
func (s *Service) Remove(ctx context.Context, id int64, actor *shared.Identity, ip, ua string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, activity.ActionVehicleDelete, ip, ua)
	return nil
}

func (s *Service) record(ctx context.Context, actor *shared.Identity, action, ip, ua string) {
	if s.activity == nil || actor == nil {
		return
	}
	userID := actor.UserID
	_ = s.activity.Record(ctx, activity.Entry{
		UserID:    &userID,
		Action:    action,
		IP:        ip,
		UserAgent: ua,
	})
}
