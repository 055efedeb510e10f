// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

// Command reaper runs a single sweep of expired download tokens.
//
// It is meant for cron-style schedulers. The sweep takes the same Redis lease
// as the API servers so it never overlaps with their periodic sweeps.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/medscope/medscope/internal/files/download"
	"github.com/medscope/medscope/internal/platform/config"
	"github.com/medscope/medscope/internal/platform/constants"
	pgstore "github.com/medscope/medscope/internal/platform/postgres"
	redisstore "github.com/medscope/medscope/internal/platform/redis"
	"github.com/medscope/medscope/pkg/uuid"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", constants.AppName))
	os.Exit(run(log))
}

// run performs the sweep and returns the process exit code, so deferred
// connection cleanup completes before main exits.
func run(log *slog.Logger) int {
	cfg, err := config.Load()
	if err != nil {
		return fail(log, err, "load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fail(log, err, "connect to postgres")
	}
	defer pool.Close()

	rdb, err := redisstore.NewClient(ctx, cfg.RedisURL, log)
	if err != nil {
		return fail(log, err, "connect to redis")
	}
	defer rdb.Close()

	// The sweep never opens documents, so no store is wired.
	service := download.NewService(download.NewRepository(pool), nil, time.Now)
	lease := download.NewRedisLease(rdb, constants.RedisKeyReaperLease, uuid.New())

	deleted, swept, err := download.NewReaper(service, lease, cfg.ReaperInterval, log).Sweep(ctx)
	if err != nil {
		return fail(log, err, "sweep")
	}

	log.Info("reaper_finished", slog.Int64("deleted", deleted), slog.Bool("swept", swept))
	return 0
}

func fail(log *slog.Logger, err error, context string) int {
	log.Error("reaper failure", slog.String("context", context), slog.Any("error", err))
	return 1
}
