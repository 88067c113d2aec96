package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/activity"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/app"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/auth"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/observability"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/platform/cache"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/platform/db"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/reports"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/roles"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/scans"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/statistics"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/users"
	"github.com/ziyansyah/Dishub-monitoring-sub002/internal/vehicles"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// Cache bersifat opsional, server tetap jalan tanpa Redis.
		logger.Warn("redis unavailable", slog.Any("error", err))
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	recorder := activity.NewRecorder(dbpool)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, tokens, recorder)
	authHandler := auth.NewHandler(logger, authService)
	guard := authHandler.Mw()

	rolesRepo := roles.NewRepository(dbpool)
	rolesService := roles.NewService(rolesRepo, recorder)
	rolesHandler := roles.NewHandler(logger, rolesService, guard)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, recorder)
	usersHandler := users.NewHandler(logger, usersService, guard)

	vehiclesRepo := vehicles.NewRepository(dbpool)
	vehiclesService := vehicles.NewService(vehiclesRepo, recorder)
	vehiclesHandler := vehicles.NewHandler(logger, vehiclesService, guard)

	scansRepo := scans.NewRepository(dbpool)
	scansService := scans.NewService(scansRepo, redisClient, recorder)
	scansHandler := scans.NewHandler(logger, scansService, guard)

	statsRepo := statistics.NewRepository(dbpool)
	statsCache := statistics.NewCache(redisClient, 30*time.Second)
	statsService := statistics.NewService(statsRepo, statsCache)
	statsHandler := statistics.NewHandler(logger, statsService, guard)

	reportsRepo := reports.NewRepository(dbpool)
	reportsService := reports.NewService(reportsRepo)
	reportsHandler := reports.NewHandler(logger, reportsService, guard)

	activityRepo := activity.NewRepository(dbpool)
	activityService := activity.NewService(activityRepo)
	activityHandler := activity.NewHandler(logger, activityService, guard)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		AuthHandler:       authHandler,
		RolesHandler:      rolesHandler,
		UsersHandler:      usersHandler,
		VehiclesHandler:   vehiclesHandler,
		ScansHandler:      scansHandler,
		StatisticsHandler: statsHandler,
		ReportsHandler:    reportsHandler,
		ActivityHandler:   activityHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
