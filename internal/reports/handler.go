package reports

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/platform/httpx"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

const defaultRangeDays = 7

// Guard restricts routes to callers holding a capability flag.
type Guard interface {
	Require(perm shared.Permission) func(http.Handler) http.Handler
}

// Handler serves range summaries and CSV downloads.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   Guard
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.PermView))
		r.Get("/summary", h.summary)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.PermExport))
		r.Get("/export", h.export)
	})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	summary, err := h.service.Summary(r.Context(), from, to)
	if err != nil {
		h.logger.Error("build report summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	// Rentang maksimal setahun, jadi aman dirangkai dulu di buffer sebelum
	// header terkirim.
	var buf bytes.Buffer
	summary, err := h.service.ExportCSV(r.Context(), &buf, from, to)
	if err != nil {
		h.logger.Error("build report export", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	filename := fmt.Sprintf("laporan-scan-%s-%s-%s.csv",
		summary.From.Format("20060102"), summary.To.Format("20060102"), uuid.NewString()[:8])
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("stream report csv", slog.Any("error", err))
	}
}

func parseRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -(defaultRangeDays - 1))
	to := now

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid from date", shared.ErrValidation)
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid to date", shared.ErrValidation)
		}
		to = parsed
	}
	return from, to, nil
}
