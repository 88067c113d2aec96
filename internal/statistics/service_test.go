package statistics

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mu         sync.Mutex
	totalCalls int
	delay      time.Duration

	vehicles, scans, users, roles int
	today                         int
	unreviewed                    int
	byType                        []CountBucket
	byTax                         []CountBucket
	daily                         []DayCount
}

func (m *mockRepo) Totals(ctx context.Context) (int, int, int, int, error) {
	m.mu.Lock()
	m.totalCalls++
	m.mu.Unlock()
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return m.vehicles, m.scans, m.users, m.roles, nil
}

func (m *mockRepo) ScansSince(ctx context.Context, since time.Time) (int, error) {
	return m.today, nil
}

func (m *mockRepo) UnreviewedScans(ctx context.Context) (int, error) {
	return m.unreviewed, nil
}

func (m *mockRepo) ScansGroupedBy(ctx context.Context, column string) ([]CountBucket, error) {
	if column == "vehicle_type" {
		return m.byType, nil
	}
	return m.byTax, nil
}

func (m *mockRepo) DailyScans(ctx context.Context, days int) ([]DayCount, error) {
	return m.daily, nil
}

func (m *mockRepo) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalCalls
}

func newTestService(t *testing.T, repo RepositoryPort) (*Service, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, NewCache(client, time.Minute)), client
}

func TestDashboardCaches(t *testing.T) {
	repo := &mockRepo{
		vehicles:   120,
		scans:      4500,
		users:      8,
		roles:      3,
		today:      42,
		unreviewed: 7,
		byType:     []CountBucket{{Label: "mobil", Count: 3000}, {Label: "motor", Count: 1500}},
	}
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	dashboard, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 120, dashboard.TotalVehicles)
	assert.Equal(t, 42, dashboard.ScansToday)
	assert.Equal(t, 7, dashboard.UnreviewedScans)
	require.Len(t, dashboard.ScansByType, 2)
	assert.Equal(t, 1, repo.calls())

	// Panggilan kedua dilayani cache.
	repo.vehicles = 999
	dashboard, err = svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 120, dashboard.TotalVehicles)
	assert.Equal(t, 1, repo.calls())
}

func TestDashboardRebuildsAfterInvalidate(t *testing.T) {
	repo := &mockRepo{vehicles: 10}
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.Dashboard(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.cache.Invalidate(ctx))
	repo.vehicles = 11

	dashboard, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 11, dashboard.TotalVehicles)
	assert.Equal(t, 2, repo.calls())
}

func TestDashboardNormalizesEmptySlices(t *testing.T) {
	repo := &mockRepo{}
	svc, _ := newTestService(t, repo)

	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, dashboard.ScansByType)
	assert.NotNil(t, dashboard.ScansByTaxStatus)
	assert.NotNil(t, dashboard.DailyScans)
}

func TestDashboardCollapsesConcurrentRebuilds(t *testing.T) {
	// Saat cache kosong dan banyak permintaan datang bersamaan, semua harus
	// berbagi satu rebuild yang sama.
	repo := &mockRepo{vehicles: 77, delay: 50 * time.Millisecond}
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dashboard, err := svc.Dashboard(ctx)
			assert.NoError(t, err)
			if dashboard != nil {
				assert.Equal(t, 77, dashboard.TotalVehicles)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, repo.calls())
}

func TestDashboardWorksWithoutRedis(t *testing.T) {
	repo := &mockRepo{vehicles: 5}
	svc := NewService(repo, NewCache(nil, 0))

	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, dashboard.TotalVehicles)
}
