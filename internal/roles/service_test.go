package roles

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/activity"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

type mockRepo struct {
	roles      map[int64]*Role
	userCounts map[int64]int
	nextID     int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{roles: make(map[int64]*Role), userCounts: make(map[int64]int), nextID: 1}
}

func (m *mockRepo) addRole(role Role) *Role {
	role.ID = m.nextID
	m.nextID++
	m.roles[role.ID] = &role
	return &role
}

func (m *mockRepo) List(ctx context.Context) ([]Role, error) {
	var out []Role
	for _, r := range m.roles {
		if r.IsActive {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockRepo) Get(ctx context.Context, id int64) (*Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return r, nil
}

func (m *mockRepo) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	for _, r := range m.roles {
		if r.ID == excludeID {
			continue
		}
		if strings.EqualFold(r.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) Create(ctx context.Context, role Role) (*Role, error) {
	role.IsActive = true
	return m.addRole(role), nil
}

func (m *mockRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) (*Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		r.Name = v.(string)
	}
	if v, ok := updates["can_export"]; ok {
		r.CanExport = v.(bool)
	}
	return r, nil
}

func (m *mockRepo) Deactivate(ctx context.Context, id int64) error {
	r, ok := m.roles[id]
	if !ok {
		return shared.ErrNotFound
	}
	r.IsActive = false
	return nil
}

func (m *mockRepo) UserCount(ctx context.Context, id int64) (int, error) {
	return m.userCounts[id], nil
}

type noopRecorder struct{ entries []activity.Entry }

func (n *noopRecorder) Record(ctx context.Context, entry activity.Entry) error {
	n.entries = append(n.entries, entry)
	return nil
}

func actor() *shared.Identity {
	return &shared.Identity{UserID: 1, Username: "admin"}
}

func TestCreateDefaultsToViewOnly(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &noopRecorder{})

	role, err := svc.Create(context.Background(), CreateRoleRequest{Name: "Petugas Lapangan"}, actor(), "", "")
	require.NoError(t, err)
	assert.True(t, role.CanView)
	assert.False(t, role.CanEdit)
	assert.False(t, role.CanExport)
	assert.False(t, role.CanDelete)
}

func TestCreateDuplicateNameRejected(t *testing.T) {
	repo := newMockRepo()
	repo.addRole(Role{Name: "Operator", IsActive: true})
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), CreateRoleRequest{Name: "operator"}, actor(), "", "")
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestCreateNameReservedAfterDeactivation(t *testing.T) {
	repo := newMockRepo()
	repo.addRole(Role{Name: "Operator", IsActive: false})
	svc := NewService(repo, nil)

	// Nama tetap terpesan walau role sudah nonaktif.
	_, err := svc.Create(context.Background(), CreateRoleRequest{Name: "Operator"}, actor(), "", "")
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestUpdateRenameConflict(t *testing.T) {
	repo := newMockRepo()
	repo.addRole(Role{Name: "Operator", IsActive: true})
	target := repo.addRole(Role{Name: "Viewer", IsActive: true})
	svc := NewService(repo, &noopRecorder{})

	taken := "Operator"
	_, err := svc.Update(context.Background(), target.ID, UpdateRoleRequest{Name: &taken}, actor(), "", "")
	require.ErrorIs(t, err, shared.ErrConflict)

	free := "Pengamat"
	updated, err := svc.Update(context.Background(), target.ID, UpdateRoleRequest{Name: &free}, actor(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "Pengamat", updated.Name)
}

func TestRemoveBlockedWhileInUse(t *testing.T) {
	repo := newMockRepo()
	role := repo.addRole(Role{Name: "Operator", IsActive: true})
	repo.userCounts[role.ID] = 3
	svc := NewService(repo, &noopRecorder{})

	err := svc.Remove(context.Background(), role.ID, actor(), "", "")
	require.ErrorIs(t, err, shared.ErrRoleInUse)
	assert.True(t, repo.roles[role.ID].IsActive)

	repo.userCounts[role.ID] = 0
	require.NoError(t, svc.Remove(context.Background(), role.ID, actor(), "", ""))
	assert.False(t, repo.roles[role.ID].IsActive)
}

func TestRemoveUnknownRole(t *testing.T) {
	svc := NewService(newMockRepo(), nil)
	err := svc.Remove(context.Background(), 99, actor(), "", "")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestStatsCountsActiveRoles(t *testing.T) {
	repo := newMockRepo()
	repo.addRole(Role{Name: "Administrator", IsActive: true})
	repo.addRole(Role{Name: "Viewer", IsActive: true})
	repo.addRole(Role{Name: "Nonaktif", IsActive: false})
	svc := NewService(repo, nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalRoles)
}
