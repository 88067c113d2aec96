package statistics

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

const dailyWindowDays = 7

// Service computes the dashboard aggregate. Rebuilds are collapsed through
// singleflight so a cold cache under concurrent load hits Postgres once.
type Service struct {
	repo  RepositoryPort
	cache *Cache
	group singleflight.Group
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Dashboard returns the cached aggregate, rebuilding it on miss.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	if cached, ok := s.cache.Get(ctx); ok {
		return cached, nil
	}

	result, err, _ := s.group.Do(dashboardCacheKey, func() (interface{}, error) {
		return s.build(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Dashboard), nil
}

func (s *Service) build(ctx context.Context) (*Dashboard, error) {
	vehicles, scans, users, roles, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.repo.ScansSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}

	unreviewed, err := s.repo.UnreviewedScans(ctx)
	if err != nil {
		return nil, err
	}

	byType, err := s.repo.ScansGroupedBy(ctx, "vehicle_type")
	if err != nil {
		return nil, err
	}
	byTax, err := s.repo.ScansGroupedBy(ctx, "tax_status")
	if err != nil {
		return nil, err
	}

	daily, err := s.repo.DailyScans(ctx, dailyWindowDays)
	if err != nil {
		return nil, err
	}

	if byType == nil {
		byType = []CountBucket{}
	}
	if byTax == nil {
		byTax = []CountBucket{}
	}
	if daily == nil {
		daily = []DayCount{}
	}

	dashboard := &Dashboard{
		TotalVehicles:    vehicles,
		TotalScans:       scans,
		TotalUsers:       users,
		ActiveRoles:      roles,
		ScansToday:       today,
		UnreviewedScans:  unreviewed,
		ScansByType:      byType,
		ScansByTaxStatus: byTax,
		DailyScans:       daily,
		GeneratedAt:      now.UTC(),
	}
	_ = s.cache.Set(ctx, dashboard)
	return dashboard, nil
}
