package activity

import (
	"context"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

// Service handles activity trail reads.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Result bundles entries with paging metadata.
type Result struct {
	Entries    []Entry
	Pagination shared.Pagination
}

// List returns a page of activity entries, newest first.
func (s *Service) List(ctx context.Context, filters ListFilters, page shared.PageRequest) (Result, error) {
	filters.Limit = page.PerPage
	filters.Offset = page.Offset()
	entries, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return Result{}, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return Result{
		Entries:    entries,
		Pagination: shared.NewPagination(page.Page, page.PerPage, total),
	}, nil
}
