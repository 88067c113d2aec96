package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound},
		{"conflict", fmt.Errorf("%w: plate", shared.ErrConflict), http.StatusConflict},
		{"validation", shared.ErrValidation, http.StatusBadRequest},
		{"role in use", fmt.Errorf("%w: 2 user(s)", shared.ErrRoleInUse), http.StatusBadRequest},
		{"bad credentials", shared.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthorized", shared.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tc.err)
			assert.Equal(t, tc.status, rec.Code)

			body := decodeError(t, rec)
			assert.Equal(t, tc.status, body.StatusCode)
			assert.Equal(t, http.StatusText(tc.status), body.Error)
		})
	}
}

func TestRespondErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, errors.New("pq: column does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "internal server error", body.Message)
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestPaginatedEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, []string{"a", "b"}, shared.NewPagination(2, 2, 5))

	var page struct {
		Data       []string `json:"data"`
		Page       int      `json:"page"`
		Limit      int      `json:"limit"`
		Total      int      `json:"total"`
		TotalPages int      `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, []string{"a", "b"}, page.Data)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
}
