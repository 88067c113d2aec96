package scans

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/activity"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

const (
	recentCacheKey = "scans:recent"
	recentCacheTTL = 10 * time.Second
	recentMaxLimit = 50
	recentDefault  = 10
)

// ActivityRecorder persists audit entries for state-changing calls.
type ActivityRecorder interface {
	Record(ctx context.Context, entry activity.Entry) error
}

// Service handles scan ingestion and reads. The recent feed is cached in
// Redis for a few seconds; everything else reads Postgres directly.
type Service struct {
	repo     RepositoryPort
	cache    *redis.Client
	activity ActivityRecorder
}

// NewService builds Service instance. cache may be nil.
func NewService(repo RepositoryPort, cache *redis.Client, recorder ActivityRecorder) *Service {
	return &Service{repo: repo, cache: cache, activity: recorder}
}

// Result bundles scans with paging metadata.
type Result struct {
	Scans      []Scan
	Pagination shared.Pagination
}

// List returns a page of scans matching the filters.
func (s *Service) List(ctx context.Context, filters ListFilters, page shared.PageRequest) (Result, error) {
	filters.Limit = page.PerPage
	filters.Offset = page.Offset()
	scans, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return Result{}, err
	}
	if scans == nil {
		scans = []Scan{}
	}
	return Result{
		Scans:      scans,
		Pagination: shared.NewPagination(page.Page, page.PerPage, total),
	}, nil
}

// Get fetches a single scan.
func (s *Service) Get(ctx context.Context, id int64) (*Scan, error) {
	return s.repo.Get(ctx, id)
}

// Ingest stores a detection event posted by the external feed.
func (s *Service) Ingest(ctx context.Context, req IngestScanRequest) (*Scan, error) {
	plate := strings.ToUpper(strings.TrimSpace(req.PlateNumber))
	if plate == "" {
		return nil, fmt.Errorf("%w: plate number required", shared.ErrValidation)
	}
	if len(req.Metadata) > 0 && !json.Valid(req.Metadata) {
		return nil, fmt.Errorf("%w: metadata must be valid JSON", shared.ErrValidation)
	}

	scan := Scan{
		PlateNumber: plate,
		VehicleType: strings.TrimSpace(req.VehicleType),
		Color:       strings.TrimSpace(req.Color),
		OwnerName:   req.OwnerName,
		TaxStatus:   req.TaxStatus,
		Location:    req.Location,
		Metadata:    req.Metadata,
	}
	if req.ScannedAt != nil {
		at, err := time.Parse(time.RFC3339, *req.ScannedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: scannedAt must be RFC3339", shared.ErrValidation)
		}
		scan.ScannedAt = at
	}

	created, err := s.repo.Create(ctx, scan)
	if err != nil {
		return nil, err
	}
	s.invalidateRecent(ctx)
	return created, nil
}

// MarkReviewed marks a scan as reviewed by the given operator.
func (s *Service) MarkReviewed(ctx context.Context, id int64, actor *shared.Identity, ip, ua string) (*Scan, error) {
	scan, err := s.repo.MarkReviewed(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.activity != nil && actor != nil {
		userID := actor.UserID
		_ = s.activity.Record(ctx, activity.Entry{
			UserID:    &userID,
			Action:    activity.ActionScanReview,
			IP:        ip,
			UserAgent: ua,
		})
	}
	s.invalidateRecent(ctx)
	return scan, nil
}

// Recent returns the newest scans, limit clamped to [1, 50]. The full window
// is cached briefly; limits below the window slice the cached result.
func (s *Service) Recent(ctx context.Context, limit int) ([]Scan, error) {
	if limit <= 0 {
		limit = recentDefault
	}
	if limit > recentMaxLimit {
		limit = recentMaxLimit
	}

	if s.cache != nil {
		if payload, err := s.cache.Get(ctx, recentCacheKey).Bytes(); err == nil {
			var cached []Scan
			if err := json.Unmarshal(payload, &cached); err == nil {
				if len(cached) > limit {
					cached = cached[:limit]
				}
				return cached, nil
			}
		}
	}

	scans, err := s.repo.Recent(ctx, recentMaxLimit)
	if err != nil {
		return nil, err
	}
	if scans == nil {
		scans = []Scan{}
	}

	if s.cache != nil {
		if payload, err := json.Marshal(scans); err == nil {
			_ = s.cache.Set(ctx, recentCacheKey, payload, recentCacheTTL).Err()
		}
	}

	if len(scans) > limit {
		scans = scans[:limit]
	}
	return scans, nil
}

func (s *Service) invalidateRecent(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, recentCacheKey).Err()
}
