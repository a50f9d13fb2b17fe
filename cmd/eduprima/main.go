package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/eduprima/eduprima-api/internal/app"
	"github.com/eduprima/eduprima-api/internal/auth"
	"github.com/eduprima/eduprima-api/internal/authz"
	"github.com/eduprima/eduprima-api/internal/identity"
	"github.com/eduprima/eduprima-api/internal/locations"
	"github.com/eduprima/eduprima-api/internal/observability"
	"github.com/eduprima/eduprima-api/internal/platform/cache"
	"github.com/eduprima/eduprima-api/internal/platform/db"
	"github.com/eduprima/eduprima-api/internal/shared"
	"github.com/eduprima/eduprima-api/internal/tutors"
	"github.com/eduprima/eduprima-api/internal/users"
	"github.com/eduprima/eduprima-api/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, db.Config{
		DSN:            cfg.PGDSN,
		MaxConns:       cfg.PGMaxConns,
		ConnectTimeout: cfg.PGConnectTimeout,
	})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cache.Config{
		Addr:    cfg.RedisAddr,
		DB:      cfg.RedisDB,
		Timeout: cfg.RedisTimeout,
	})
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionStore := identity.NewSessionStore(redisClient, cfg.SessionSecret, cfg.SessionTTL)
	resolver := identity.NewResolver(logger,
		identity.NewManagedSource(sessionStore, logger),
		identity.NewLegacySource(logger),
	)
	authzMW := authz.Middleware{Logger: logger}

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)
	metrics := observability.NewMetrics()

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionStore)

	tutorsRepo := tutors.NewRepository(pool)
	tutorsService := tutors.NewService(tutorsRepo, auditLogger, logger)
	tutorsHandler := tutors.NewHandler(logger, tutorsService, authzMW)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, authzMW, jobsClient)

	locationsRepo := locations.NewRepository(pool)
	locationsService := locations.NewService(locationsRepo, redisClient, logger)
	locationsHandler := locations.NewHandler(logger, locationsService, authzMW)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Resolver:         resolver,
		AuthHandler:      authHandler,
		TutorsHandler:    tutorsHandler,
		UsersHandler:     usersHandler,
		LocationsHandler: locationsHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
