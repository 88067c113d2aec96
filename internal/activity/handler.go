package activity

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/platform/httpx"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

// Guard restricts routes to callers holding a capability flag.
type Guard interface {
	Require(perm shared.Permission) func(http.Handler) http.Handler
}

// Handler wires HTTP endpoints for the activity trail.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   Guard
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers activity routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.PermView))
		r.Get("/", h.list)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{Action: r.URL.Query().Get("action")}
	if raw := r.URL.Query().Get("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "userId must be an integer")
			return
		}
		filters.UserID = &id
	}
	if from, ok := parseDate(r.URL.Query().Get("from")); ok {
		filters.From = &from
	}
	if to, ok := parseDate(r.URL.Query().Get("to")); ok {
		filters.To = &to
	}

	page := shared.ParsePageRequest(r)
	result, err := h.service.List(r.Context(), filters, page)
	if err != nil {
		h.logger.Error("list activity", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Paginated(w, result.Entries, result.Pagination)
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}
