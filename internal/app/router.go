package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/activity"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/auth"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/observability"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/reports"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/roles"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/scans"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/statistics"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/users"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/vehicles"
	"github.com/ziyansyah/Dishub-monitoring-sub002/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AuthHandler       *auth.Handler
	RolesHandler      *roles.Handler
	UsersHandler      *users.Handler
	VehiclesHandler   *vehicles.Handler
	ScansHandler      *scans.Handler
	StatisticsHandler *statistics.Handler
	ReportsHandler    *reports.Handler
	ActivityHandler   *activity.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with Dishub defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	authMw := params.AuthHandler.Mw()

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)

		// Ingest dari perangkat CCTV tidak memakai token, sisanya iya.
		// Handler scans memasang RequireAuth untuk grup terlindungnya sendiri.
		r.Route("/scans", params.ScansHandler.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(authMw.RequireAuth)
			r.Route("/roles", params.RolesHandler.MountRoutes)
			r.Route("/users", params.UsersHandler.MountRoutes)
			r.Route("/vehicles", params.VehiclesHandler.MountRoutes)
			r.Route("/statistics", params.StatisticsHandler.MountRoutes)
			r.Route("/reports", params.ReportsHandler.MountRoutes)
			r.Route("/activity", params.ActivityHandler.MountRoutes)
		})

		r.Get("/docs", serveOpenAPI(params.Logger))
	})

	return r
}

// serveOpenAPI serves the embedded API description.
func serveOpenAPI(logger *slog.Logger) http.HandlerFunc {
	doc, err := fs.ReadFile(web.OpenAPI, "openapi.yaml")
	if err != nil {
		logger.Error("read embedded openapi document", slog.Any("error", err))
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if doc == nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(doc)
	}
}
