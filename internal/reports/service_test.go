package reports

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

type mockRepo struct {
	rows     []DayRow
	lastFrom time.Time
	lastTo   time.Time
}

func (m *mockRepo) DailyRows(ctx context.Context, from, to time.Time) ([]DayRow, error) {
	m.lastFrom = from
	m.lastTo = to
	return m.rows, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSummaryTotalsRows(t *testing.T) {
	repo := &mockRepo{rows: []DayRow{
		{Date: "2026-08-28", ScanCount: 10, ReviewedCount: 4, UnreviewedCount: 6},
		{Date: "2026-08-29", ScanCount: 5, ReviewedCount: 5, UnreviewedCount: 0},
	}}
	svc := NewService(repo)

	summary, err := svc.Summary(context.Background(), day(2026, 8, 28), day(2026, 8, 29))
	require.NoError(t, err)
	assert.Equal(t, 15, summary.TotalScans)
	assert.Equal(t, 9, summary.Reviewed)
	assert.Equal(t, 6, summary.Unreviewed)
	require.Len(t, summary.Days, 2)

	// Batas atas eksklusif satu hari setelah tanggal akhir.
	assert.Equal(t, day(2026, 8, 28), repo.lastFrom)
	assert.Equal(t, day(2026, 8, 30), repo.lastTo)
}

func TestSummaryEmptyRange(t *testing.T) {
	svc := NewService(&mockRepo{})

	summary, err := svc.Summary(context.Background(), day(2026, 8, 1), day(2026, 8, 7))
	require.NoError(t, err)
	assert.NotNil(t, summary.Days)
	assert.Zero(t, summary.TotalScans)
}

func TestSummaryRejectsInvertedRange(t *testing.T) {
	svc := NewService(&mockRepo{})
	_, err := svc.Summary(context.Background(), day(2026, 8, 10), day(2026, 8, 1))
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestSummaryRejectsOversizedRange(t *testing.T) {
	svc := NewService(&mockRepo{})
	_, err := svc.Summary(context.Background(), day(2020, 1, 1), day(2026, 1, 1))
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestExportCSVFormat(t *testing.T) {
	repo := &mockRepo{rows: []DayRow{
		{Date: "2026-08-28", ScanCount: 10, ReviewedCount: 4, UnreviewedCount: 6},
	}}
	svc := NewService(repo)

	var buf bytes.Buffer
	summary, err := svc.ExportCSV(context.Background(), &buf, day(2026, 8, 28), day(2026, 8, 28))
	require.NoError(t, err)

	// Ringkasan ikut dikembalikan supaya pemanggil bisa menyusun nama berkas.
	require.NotNil(t, summary)
	assert.Equal(t, day(2026, 8, 28), summary.From)
	assert.Equal(t, 10, summary.TotalScans)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Report: Scan Activity Summary\r\n"))
	assert.Contains(t, out, "Date,Scans,Reviewed,Unreviewed\r\n")
	assert.Contains(t, out, "2026-08-28,10,4,6\r\n")
	assert.Contains(t, out, "Totals,10,4,6\r\n")
}

func TestExportCSVRejectsInvalidRange(t *testing.T) {
	svc := NewService(&mockRepo{})

	var buf bytes.Buffer
	summary, err := svc.ExportCSV(context.Background(), &buf, day(2026, 8, 10), day(2026, 8, 1))
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Nil(t, summary)
	assert.Zero(t, buf.Len())
}
