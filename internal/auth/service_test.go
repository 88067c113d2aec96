package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/activity"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

type mockRepo struct {
	users      map[int64]*User
	nextUserID int64

	defaultRoleID  int64
	defaultRoleErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[int64]*User), nextUserID: 1, defaultRoleID: 3}
}

func (m *mockRepo) addUser(user User) *User {
	user.ID = m.nextUserID
	m.nextUserID++
	m.users[user.ID] = &user
	return &user
}

func (m *mockRepo) FindByIdentifier(ctx context.Context, identifier string) (*User, error) {
	for _, u := range m.users {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) IdentifierTaken(ctx context.Context, username, email string, excludeID int64) (bool, error) {
	for _, u := range m.users {
		if u.ID == excludeID {
			continue
		}
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) DefaultRoleID(ctx context.Context) (int64, error) {
	if m.defaultRoleErr != nil {
		return 0, m.defaultRoleErr
	}
	return m.defaultRoleID, nil
}

func (m *mockRepo) CreateUser(ctx context.Context, user *User) (*User, error) {
	stored := *user
	stored.IsActive = true
	stored.CreatedAt = time.Now()
	return m.addUser(stored), nil
}

func (m *mockRepo) UpdateUser(ctx context.Context, id int64, updates map[string]interface{}) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if v, ok := updates["username"]; ok {
		u.Username = v.(string)
	}
	if v, ok := updates["email"]; ok {
		u.Email = v.(string)
	}
	if v, ok := updates["name"]; ok {
		u.Name = v.(string)
	}
	if v, ok := updates["password_hash"]; ok {
		u.PasswordHash = v.(string)
	}
	return u, nil
}

type recordedActivity struct {
	entries []activity.Entry
}

func (r *recordedActivity) Record(ctx context.Context, entry activity.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func newTestService(repo Repository, recorder ActivityRecorder) *Service {
	return NewService(repo, NewTokenIssuer("unit-secret", time.Hour), recorder)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginSuccess(t *testing.T) {
	repo := newMockRepo()
	repo.addUser(User{
		Username:     "budi",
		Email:        "budi@dishub.local",
		PasswordHash: hashOf(t, "rahasia123"),
		IsActive:     true,
		Role:         Role{ID: 1, Name: "Administrator", CanView: true, CanEdit: true},
	})
	recorder := &recordedActivity{}
	svc := newTestService(repo, recorder)

	token, profile, err := svc.Login(context.Background(), "budi", "rahasia123", "10.0.0.1", "ua")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "budi", profile.Username)
	assert.Equal(t, "Administrator", profile.Role.Name)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, activity.ActionLogin, recorder.entries[0].Action)
}

func TestLoginFailuresShareOneError(t *testing.T) {
	repo := newMockRepo()
	repo.addUser(User{
		Username:     "budi",
		Email:        "budi@dishub.local",
		PasswordHash: hashOf(t, "rahasia123"),
		IsActive:     true,
	})
	inactive := repo.addUser(User{
		Username:     "siti",
		Email:        "siti@dishub.local",
		PasswordHash: hashOf(t, "rahasia123"),
		IsActive:     false,
	})
	svc := newTestService(repo, nil)
	ctx := context.Background()

	_, _, unknownErr := svc.Login(ctx, "nobody", "rahasia123", "", "")
	_, _, wrongPassErr := svc.Login(ctx, "budi", "salah", "", "")
	_, _, inactiveErr := svc.Login(ctx, inactive.Username, "rahasia123", "", "")

	// Ketiganya harus memakai pesan yang sama agar username tidak bisa ditebak.
	require.ErrorIs(t, unknownErr, shared.ErrInvalidCredentials)
	require.ErrorIs(t, wrongPassErr, shared.ErrInvalidCredentials)
	require.ErrorIs(t, inactiveErr, shared.ErrInvalidCredentials)
}

func TestRegisterAssignsDefaultRole(t *testing.T) {
	repo := newMockRepo()
	repo.defaultRoleID = 9
	svc := newTestService(repo, &recordedActivity{})

	profile, err := svc.Register(context.Background(), RegisterInput{
		Username: "andi",
		Email:    "andi@dishub.local",
		Name:     "Andi",
		Password: "rahasia123",
	}, "", "")
	require.NoError(t, err)
	assert.Equal(t, "andi", profile.Username)

	stored := repo.users[profile.ID]
	assert.Equal(t, int64(9), stored.RoleID)
	assert.NotEqual(t, "rahasia123", stored.PasswordHash)
}

func TestRegisterDuplicateIdentifier(t *testing.T) {
	repo := newMockRepo()
	repo.addUser(User{Username: "andi", Email: "andi@dishub.local", IsActive: true})
	svc := newTestService(repo, nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "andi",
		Email:    "lain@dishub.local",
		Name:     "Andi",
		Password: "rahasia123",
	}, "", "")
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestValidateTokenResolvesLivePermissions(t *testing.T) {
	repo := newMockRepo()
	user := repo.addUser(User{
		Username: "budi",
		IsActive: true,
		Role:     Role{Name: "Operator", CanView: true, CanEdit: true},
	})
	svc := newTestService(repo, nil)

	token, err := svc.tokens.Issue(user.ID)
	require.NoError(t, err)

	identity, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.True(t, identity.Permissions.Allows(shared.PermEdit))
	assert.False(t, identity.Permissions.Allows(shared.PermDelete))

	// Menonaktifkan akun langsung menolak request berikutnya walau token valid.
	user.IsActive = false
	_, err = svc.ValidateToken(context.Background(), token)
	require.True(t, errors.Is(err, shared.ErrUnauthorized))
}

func TestUpdateProfileRejectsTakenIdentifier(t *testing.T) {
	repo := newMockRepo()
	repo.addUser(User{Username: "andi", Email: "andi@dishub.local", IsActive: true})
	user := repo.addUser(User{Username: "budi", Email: "budi@dishub.local", IsActive: true})
	svc := newTestService(repo, &recordedActivity{})

	taken := "andi"
	_, err := svc.UpdateProfile(context.Background(), user.ID, ProfilePatch{Username: &taken}, "", "")
	require.ErrorIs(t, err, shared.ErrConflict)

	name := "Budi Santoso"
	profile, err := svc.UpdateProfile(context.Background(), user.ID, ProfilePatch{Name: &name}, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", profile.Name)
}
