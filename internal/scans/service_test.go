package scans

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/activity"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

type mockRepo struct {
	scans       map[int64]*Scan
	nextID      int64
	recentCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{scans: make(map[int64]*Scan), nextID: 1}
}

func (m *mockRepo) List(ctx context.Context, filters ListFilters) ([]Scan, int, error) {
	var out []Scan
	for _, s := range m.scans {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (m *mockRepo) Get(ctx context.Context, id int64) (*Scan, error) {
	s, ok := m.scans[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (m *mockRepo) Create(ctx context.Context, scan Scan) (*Scan, error) {
	scan.ID = m.nextID
	m.nextID++
	if scan.ScannedAt.IsZero() {
		scan.ScannedAt = time.Now()
	}
	scan.CreatedAt = time.Now()
	m.scans[scan.ID] = &scan
	return &scan, nil
}

func (m *mockRepo) MarkReviewed(ctx context.Context, id int64) (*Scan, error) {
	s, ok := m.scans[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	s.Reviewed = true
	return s, nil
}

func (m *mockRepo) Recent(ctx context.Context, limit int) ([]Scan, error) {
	m.recentCalls++
	var out []Scan
	for i := int64(1); i < m.nextID && len(out) < limit; i++ {
		if s, ok := m.scans[i]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

type noopRecorder struct{ entries []activity.Entry }

func (n *noopRecorder) Record(ctx context.Context, entry activity.Entry) error {
	n.entries = append(n.entries, entry)
	return nil
}

func newCachedService(t *testing.T, repo RepositoryPort) (*Service, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, client, &noopRecorder{}), client
}

func TestIngestNormalizesPlate(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil, nil)

	scan, err := svc.Ingest(context.Background(), IngestScanRequest{PlateNumber: "  b 1234 xyz "})
	require.NoError(t, err)
	assert.Equal(t, "B 1234 XYZ", scan.PlateNumber)
	assert.False(t, scan.ScannedAt.IsZero())
}

func TestIngestRejectsBadInput(t *testing.T) {
	svc := NewService(newMockRepo(), nil, nil)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, IngestScanRequest{PlateNumber: "   "})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Ingest(ctx, IngestScanRequest{PlateNumber: "B 1 A", Metadata: json.RawMessage(`{broken`)})
	require.ErrorIs(t, err, shared.ErrValidation)

	bad := "kemarin"
	_, err = svc.Ingest(ctx, IngestScanRequest{PlateNumber: "B 1 A", ScannedAt: &bad})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestIngestHonorsScannedAt(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil, nil)

	at := time.Date(2026, 8, 30, 6, 15, 0, 0, time.UTC).Format(time.RFC3339)
	scan, err := svc.Ingest(context.Background(), IngestScanRequest{PlateNumber: "D 88 AB", ScannedAt: &at})
	require.NoError(t, err)
	assert.Equal(t, 2026, scan.ScannedAt.Year())
	assert.Equal(t, time.August, scan.ScannedAt.Month())
}

func TestMarkReviewedRecordsActivity(t *testing.T) {
	repo := newMockRepo()
	recorder := &noopRecorder{}
	svc := NewService(repo, nil, recorder)

	created, err := svc.Ingest(context.Background(), IngestScanRequest{PlateNumber: "B 1 A"})
	require.NoError(t, err)

	reviewed, err := svc.MarkReviewed(context.Background(), created.ID, &shared.Identity{UserID: 4}, "10.0.0.1", "ua")
	require.NoError(t, err)
	assert.True(t, reviewed.Reviewed)
	require.Len(t, recorder.entries, 1)
	assert.Equal(t, activity.ActionScanReview, recorder.entries[0].Action)
}

func TestRecentClampsLimit(t *testing.T) {
	repo := newMockRepo()
	for i := 0; i < 60; i++ {
		_, err := repo.Create(context.Background(), Scan{PlateNumber: fmt.Sprintf("B %d X", i)})
		require.NoError(t, err)
	}
	svc := NewService(repo, nil, nil)

	scans, err := svc.Recent(context.Background(), 500)
	require.NoError(t, err)
	assert.Len(t, scans, 50)

	scans, err = svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, scans, 10)
}

func TestRecentServesFromCache(t *testing.T) {
	repo := newMockRepo()
	for i := 0; i < 5; i++ {
		_, err := repo.Create(context.Background(), Scan{PlateNumber: fmt.Sprintf("B %d X", i)})
		require.NoError(t, err)
	}
	svc, _ := newCachedService(t, repo)
	ctx := context.Background()

	first, err := svc.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, first, 3)
	assert.Equal(t, 1, repo.recentCalls)

	// Panggilan kedua dilayani cache, termasuk limit yang lebih kecil.
	second, err := svc.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Equal(t, 1, repo.recentCalls)
}

func TestIngestInvalidatesRecentCache(t *testing.T) {
	repo := newMockRepo()
	svc, client := newCachedService(t, repo)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, IngestScanRequest{PlateNumber: "B 1 A"})
	require.NoError(t, err)

	_, err = svc.Recent(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 1, repo.recentCalls)

	_, err = svc.Ingest(ctx, IngestScanRequest{PlateNumber: "B 2 B"})
	require.NoError(t, err)

	// Cache sudah dibuang, feed dibaca ulang dari repo.
	exists, err := client.Exists(ctx, recentCacheKey).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	scans, err := svc.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, scans, 2)
	assert.Equal(t, 2, repo.recentCalls)
}
