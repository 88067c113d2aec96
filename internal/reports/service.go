package reports

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

const maxRangeDays = 366

// Service builds range summaries and CSV exports over scan data.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Summary aggregates scan activity between from and to inclusive.
func (s *Service) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	from, to, err := normalizeRange(from, to)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.DailyRows(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []DayRow{}
	}

	summary := &Summary{
		From:        from,
		To:          to,
		Days:        rows,
		GeneratedAt: time.Now().UTC(),
	}
	for _, row := range rows {
		summary.TotalScans += row.ScanCount
		summary.Reviewed += row.ReviewedCount
		summary.Unreviewed += row.UnreviewedCount
	}
	return summary, nil
}

// ExportCSV writes the range summary as CSV to w and returns the summary so
// callers can derive filenames and headers from it.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, from, to time.Time) (*Summary, error) {
	summary, err := s.Summary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if err := writeSummaryCSV(w, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func normalizeRange(from, to time.Time) (time.Time, time.Time, error) {
	from = truncateDay(from)
	to = truncateDay(to)
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: range end precedes start", shared.ErrValidation)
	}
	if to.Sub(from) > maxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: range exceeds %d days", shared.ErrValidation, maxRangeDays)
	}
	return from, to, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
