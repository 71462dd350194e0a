package main

import (
	"context"
	"net/http"
	"os"

	"github.com/breadcrumbsapp/breadcrumbs-backend/api/routes"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/auth"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/cities"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/connections"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/restaurants"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/users"
	"github.com/breadcrumbsapp/breadcrumbs-backend/internal/visits"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/auth/session"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/config"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/db"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/logger"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/migrate"
	"github.com/breadcrumbsapp/breadcrumbs-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	cityRepo := cities.NewRepository(dbClient.DB())
	userRepo := users.NewRepository(dbClient.DB())
	connectionRepo := connections.NewRepository(dbClient.DB())
	restaurantRepo := restaurants.NewRepository(dbClient.DB())
	visitRepo := visits.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		CityRepo:       cityRepo,
		Connections:    connectionRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(userRepo, visitRepo, connectionRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	connectionService, err := connections.NewService(connectionRepo, userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create connection service", err)
		os.Exit(1)
	}

	restaurantService, err := restaurants.NewService(restaurantRepo, visitRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create restaurant service", err)
		os.Exit(1)
	}

	visitService, err := visits.NewService(visitRepo, restaurantRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create visit service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			sessionManager,
			authService,
			userService,
			connectionService,
			restaurantService,
			visitService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
