package roles

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/activity"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

// ActivityRecorder persists audit entries for state-changing calls.
type ActivityRecorder interface {
	Record(ctx context.Context, entry activity.Entry) error
}

// Service handles role business logic.
type Service struct {
	repo     RepositoryPort
	activity ActivityRecorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, recorder ActivityRecorder) *Service {
	return &Service{repo: repo, activity: recorder}
}

// List returns active roles annotated with user counts, creation order.
func (s *Service) List(ctx context.Context) ([]Role, error) {
	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []Role{}
	}
	return roles, nil
}

// Get fetches a single role.
func (s *Service) Get(ctx context.Context, id int64) (*Role, error) {
	return s.repo.Get(ctx, id)
}

// Create inserts a new role. The name must be unique across all roles,
// including deactivated ones. Unset capability flags default to view-only.
func (s *Service) Create(ctx context.Context, req CreateRoleRequest, actor *shared.Identity, ip, ua string) (*Role, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name required", shared.ErrValidation)
	}

	taken, err := s.repo.NameTaken(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: role name %q", shared.ErrConflict, name)
	}

	role := Role{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CanView:     true,
	}
	if req.CanView != nil {
		role.CanView = *req.CanView
	}
	if req.CanEdit != nil {
		role.CanEdit = *req.CanEdit
	}
	if req.CanExport != nil {
		role.CanExport = *req.CanExport
	}
	if req.CanDelete != nil {
		role.CanDelete = *req.CanDelete
	}

	created, err := s.repo.Create(ctx, role)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actor, activity.ActionRoleCreate, ip, ua)
	return created, nil
}

// Update applies a partial update; renaming checks uniqueness against every
// other role.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRoleRequest, actor *shared.Identity, ip, ua string) (*Role, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: role name required", shared.ErrValidation)
		}
		taken, err := s.repo.NameTaken(ctx, name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: role name %q", shared.ErrConflict, name)
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.CanView != nil {
		updates["can_view"] = *req.CanView
	}
	if req.CanEdit != nil {
		updates["can_edit"] = *req.CanEdit
	}
	if req.CanExport != nil {
		updates["can_export"] = *req.CanExport
	}
	if req.CanDelete != nil {
		updates["can_delete"] = *req.CanDelete
	}

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actor, activity.ActionRoleUpdate, ip, ua)
	return updated, nil
}

// Remove soft-deletes a role. Deletion is blocked, not cascaded, while any
// user still references the role.
func (s *Service) Remove(ctx context.Context, id int64, actor *shared.Identity, ip, ua string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.UserCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d user(s)", shared.ErrRoleInUse, count)
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, activity.ActionRoleDelete, ip, ua)
	return nil
}

// Stats aggregates active role counts and flags for the dashboard.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	roles, err := s.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{TotalRoles: len(roles), Roles: roles}, nil
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
