// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

// Command seed bootstraps an empty deployment.
//
// It applies migrations, creates the first admin account and issues the first
// API key. The raw key is printed once to stdout and cannot be recovered later.
// Re-running against a seeded database keeps the existing admin and fails on
// the API key only if the key name is already taken.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/medscope/medscope/internal/platform/apperr"
	"github.com/medscope/medscope/internal/platform/config"
	"github.com/medscope/medscope/internal/platform/constants"
	"github.com/medscope/medscope/internal/platform/migration"
	pgstore "github.com/medscope/medscope/internal/platform/postgres"
	"github.com/medscope/medscope/internal/platform/sec"
	"github.com/medscope/medscope/internal/users/apikey"
	"github.com/medscope/medscope/internal/users/auth"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With(slog.String("app", constants.AppName))
	os.Exit(run(log))
}

// run seeds the database and returns the process exit code.
func run(log *slog.Logger) int {
	cfg, err := config.LoadSeed()
	if err != nil {
		return fail(log, err, "load seed configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
		return fail(log, err, "run migrations")
	}

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fail(log, err, "connect to postgres")
	}
	defer pool.Close()

	sessions := auth.NewSessionManager(auth.NewTokenRepository(pool))
	authService := auth.NewService(auth.NewCredentialRepository(pool), sessions, time.Now)

	_, err = authService.Register(ctx, auth.RegisterInput{
		Name:      cfg.AdminName,
		FirstName: cfg.AdminFirstName,
		Email:     cfg.AdminEmail,
		Password:  cfg.AdminPassword,
		Role:      sec.RoleAdmin,
	})
	switch {
	case err == nil:
		log.Info("seed_admin_created", slog.String("email", cfg.AdminEmail))
	case apperr.KindOf(err) == apperr.KindConflict:
		log.Info("seed_admin_exists", slog.String("email", cfg.AdminEmail))
	default:
		return fail(log, err, "create admin")
	}

	key, err := apikey.NewService(apikey.NewRepository(pool)).Create(ctx, cfg.APIKeyName)
	if err != nil {
		return fail(log, err, "create api key")
	}

	log.Info("seed_api_key_created", slog.String("name", key.Name), slog.String("id", key.ID))
	fmt.Println(key.Value)
	return 0
}

func fail(log *slog.Logger, err error, context string) int {
	log.Error("seed failure", slog.String("context", context), slog.Any("error", err))
	return 1
}
