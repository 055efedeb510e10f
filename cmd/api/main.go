// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

// Command api is the entry point for the Medscope HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Open the document store.
//  7. Wire HTTP handlers and the download reaper.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/medscope/medscope/internal/api"
	"github.com/medscope/medscope/internal/files/download"
	"github.com/medscope/medscope/internal/files/storage"
	"github.com/medscope/medscope/internal/platform/config"
	"github.com/medscope/medscope/internal/platform/constants"
	"github.com/medscope/medscope/internal/platform/migration"
	pgstore "github.com/medscope/medscope/internal/platform/postgres"
	redisstore "github.com/medscope/medscope/internal/platform/redis"
	"github.com/medscope/medscope/internal/users/account"
	"github.com/medscope/medscope/internal/users/apikey"
	"github.com/medscope/medscope/internal/users/auth"
	"github.com/medscope/medscope/pkg/uuid"
)

func main() {
	os.Exit(run())
}

// run wires and serves the API, returning the process exit code so every
// deferred release runs before the process exits.
func run() int {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	level := new(slog.LevelVar)
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fail(log, err, "load configuration")
	}

	if cfg.Debug {
		level.Set(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage", cfg.StorageBackend),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	if err != nil {
		return fail(log, err, "connect to postgres")
	}
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	if err != nil {
		return fail(log, err, "connect to redis")
	}
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
		return fail(log, err, "run migrations")
	}

	// ── 6. Document Store ─────────────────────────────────────────────────
	store, closeStore, err := openStore(startupCtx, cfg)
	if err != nil {
		return fail(log, err, "open document store")
	}
	defer closeStore()

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	sessions := auth.NewSessionManager(auth.NewTokenRepository(pool))
	authService := auth.NewService(auth.NewCredentialRepository(pool), sessions, time.Now)
	accountService := account.NewService(account.NewAccountRepository(pool), authService)
	apiKeyService := apikey.NewService(apikey.NewRepository(pool))
	downloadService := download.NewService(download.NewRepository(pool), store, time.Now)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, sessions),
		Accounts:  account.NewHandler(accountService),
		APIKeys:   apikey.NewHandler(apiKeyService),
		Downloads: download.NewHandler(downloadService),
	}

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	server := api.NewServer(rootCtx, cfg, log, api.Gates{APIKeys: apiKeyService, Sessions: sessions}, handlers)

	// ── 8. Download Reaper ────────────────────────────────────────────────
	lease := download.NewRedisLease(rdb, constants.RedisKeyReaperLease, uuid.New())
	reaper := download.NewReaper(downloadService, lease, cfg.ReaperInterval, log)
	reaperDone := make(chan struct{})
	go func() {
		defer close(reaperDone)
		reaper.Run(rootCtx)
	}()

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	rootCancel()
	<-reaperDone

	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		return 1
	}

	log.Info("server stopped cleanly")
	return 0
}

// openStore builds the configured document store and its release func.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	if cfg.StorageBackend == config.StorageS3 {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		return store, func() {}, err
	}

	store, err := storage.NewLocalStore(cfg.UploadsDir)
	if err != nil {
		return nil, func() {}, err
	}
	return store, func() { _ = store.Close() }, nil
}

// fail logs a structured startup failure and returns the exit code.
func fail(log *slog.Logger, err error, context string) int {
	log.Error("startup failure",
		slog.String("context", context),
		slog.Any("error", err),
	)
	return 1
}
