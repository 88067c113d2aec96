package scans

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/platform/httpx"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/shared"
)

// Guard restricts routes to callers holding a capability flag.
type Guard interface {
	RequireAuth(next http.Handler) http.Handler
	Require(perm shared.Permission) func(http.Handler) http.Handler
}

// Handler manages scan endpoints. Ingestion stays unauthenticated because it
// is fed by the roadside detector units.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     Guard
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers scan routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.ingest)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAuth)
		r.Group(func(r chi.Router) {
			r.Use(h.guard.Require(shared.PermView))
			r.Get("/", h.list)
			r.Get("/recent", h.recent)
			r.Get("/{id}", h.get)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.guard.Require(shared.PermEdit))
			r.Patch("/{id}/review", h.review)
		})
	})
}

func (h *Handler) ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestScanRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid scan payload")
		return
	}

	scan, err := h.service.Ingest(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, scan)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := ListFilters{
		Plate:       q.Get("plate"),
		VehicleType: q.Get("type"),
		TaxStatus:   q.Get("taxStatus"),
		SortBy:      q.Get("sortBy"),
		SortDir:     q.Get("sortDir"),
	}
	if raw := q.Get("reviewed"); raw != "" {
		reviewed := raw == "true"
		filters.Reviewed = &reviewed
	}
	if from, ok := parseTime(q.Get("from")); ok {
		filters.From = &from
	}
	if to, ok := parseTime(q.Get("to")); ok {
		filters.To = &to
	}

	page := shared.ParsePageRequest(r)
	result, err := h.service.List(r.Context(), filters, page)
	if err != nil {
		h.logger.Error("list scans", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Paginated(w, result.Scans, result.Pagination)
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	scans, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("recent scans", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, scans)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	scan, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, scan)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	scan, err := h.service.MarkReviewed(r.Context(), id, shared.IdentityFromContext(r.Context()), r.RemoteAddr, r.UserAgent())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, scan)
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func parseTime(raw string) (time.Time, bool) {
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
