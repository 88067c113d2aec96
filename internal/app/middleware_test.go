package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStackedRouter(t *testing.T, cfg *Config) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Use(MiddlewareStack(MiddlewareConfig{Logger: logger, Config: cfg})...)
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func doPing(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitRejectsBurst(t *testing.T) {
	handler := newStackedRouter(t, &Config{RateLimit: 3, RateWindow: time.Minute})

	for i := 0; i < 3; i++ {
		rec := doPing(handler, "203.0.113.7:40000")
		require.Equal(t, http.StatusNoContent, rec.Code, "permintaan ke-%d masih di bawah limit", i+1)
	}

	rec := doPing(handler, "203.0.113.7:40000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimitKeyedByClientIP(t *testing.T) {
	handler := newStackedRouter(t, &Config{RateLimit: 1, RateWindow: time.Minute})

	require.Equal(t, http.StatusNoContent, doPing(handler, "203.0.113.7:40000").Code)
	// Port berbeda, IP sama, tetap kena limit yang sama.
	assert.Equal(t, http.StatusTooManyRequests, doPing(handler, "203.0.113.7:40001").Code)

	// IP lain punya kuota sendiri.
	assert.Equal(t, http.StatusNoContent, doPing(handler, "198.51.100.9:40000").Code)
}
