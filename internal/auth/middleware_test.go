package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"standard", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"lowercase scheme", "bearer abc", "abc", true},
		{"missing header", "", "", false},
		{"wrong scheme", "Basic abc", "", false},
		{"no token", "Bearer", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			token, ok := bearerToken(r)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, token)
		})
	}
}

func protectedStack(t *testing.T, perm shared.Permission) (http.Handler, *mockRepo, *TokenIssuer) {
	t.Helper()
	repo := newMockRepo()
	issuer := NewTokenIssuer("unit-secret", time.Hour)
	svc := NewService(repo, issuer, nil)
	mw := Middleware{Service: svc}

	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler = mw.Require(perm)(handler)
	handler = mw.RequireAuth(handler)
	return handler, repo, issuer
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	handler, _, _ := protectedStack(t, shared.PermView)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthRejectsForgedToken(t *testing.T) {
	handler, _, _ := protectedStack(t, shared.PermView)
	forged, err := NewTokenIssuer("other-secret", time.Hour).Issue(1)
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+forged)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireEnforcesPermission(t *testing.T) {
	handler, repo, issuer := protectedStack(t, shared.PermDelete)
	viewer := repo.addUser(User{
		Username: "siti",
		IsActive: true,
		Role:     Role{Name: "Viewer", CanView: true},
	})
	admin := repo.addUser(User{
		Username: "admin",
		IsActive: true,
		Role:     Role{Name: "Administrator", CanView: true, CanEdit: true, CanExport: true, CanDelete: true},
	})

	viewerToken, err := issuer.Issue(viewer.ID)
	require.NoError(t, err)
	adminToken, err := issuer.Issue(admin.ID)
	require.NoError(t, err)

	r := httptest.NewRequest("DELETE", "/", nil)
	r.Header.Set("Authorization", "Bearer "+viewerToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	r = httptest.NewRequest("DELETE", "/", nil)
	r.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
