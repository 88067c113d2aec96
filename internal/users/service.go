package users

import (
	"context"
	"strings"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/activity"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

// ActivityRecorder persists audit entries for state-changing calls.
type ActivityRecorder interface {
	Record(ctx context.Context, entry activity.Entry) error
}

// Service handles user administration logic.
type Service struct {
	repo     RepositoryPort
	activity ActivityRecorder
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, recorder ActivityRecorder) *Service {
	return &Service{repo: repo, activity: recorder}
}

// Result bundles users with paging metadata.
type Result struct {
	Users      []User
	Pagination shared.Pagination
}

// List returns a page of users matching the filters.
func (s *Service) List(ctx context.Context, filters ListFilters, page shared.PageRequest) (Result, error) {
	filters.Limit = page.PerPage
	filters.Offset = page.Offset()
	users, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return Result{}, err
	}
	if users == nil {
		users = []User{}
	}
	return Result{
		Users:      users,
		Pagination: shared.NewPagination(page.Page, page.PerPage, total),
	}, nil
}

// Get fetches a single user.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

// Update applies an administrative update (name, email, role assignment,
// activation toggle). Accounts are never hard deleted.
func (s *Service) Update(ctx context.Context, id int64, req UpdateUserRequest, actor *shared.Identity, ip, ua string) (*User, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		updates["email"] = strings.TrimSpace(*req.Email)
	}
	if req.RoleID != nil {
		updates["role_id"] = *req.RoleID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	user, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}

	if s.activity != nil && actor != nil {
		actorID := actor.UserID
		_ = s.activity.Record(ctx, activity.Entry{
			UserID:    &actorID,
			Action:    activity.ActionUserUpdate,
			IP:        ip,
			UserAgent: ua,
		})
	}
	return user, nil
}
