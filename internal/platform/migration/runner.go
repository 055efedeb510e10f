// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

/*
Package migration applies the SQL files in data/migrations with golang-migrate.

The API server and the seed command both call [RunUp] at startup, so whichever
starts first brings the users and files schemas to the current version. A dirty
version (a half-applied migration) stops startup; it is never forced.
*/
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunUp applies all pending up migrations found in migrationsPath to dsn.
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	source, err := SourceURL(migrationsPath)
	if err != nil {
		return err
	}

	migrator, err := migrate.New(source, PGX5URL(dsn))
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		sourceError, dbError := migrator.Close()
		if err := errors.Join(sourceError, dbError); err != nil {
			logger.Error("migration_close_failed", slog.Any("error", err))
		}
	}()

	migrator.Log = &migrateLogger{logger: logger}

	from, isDirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to read version: %w", err)
	}
	if isDirty {
		return fmt.Errorf("migration: version %d is dirty; fix the schema and run `migrate force`", from)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	to, _, _ := migrator.Version()
	logger.Info("migration_applied",
		slog.String("source", source),
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)

	return nil
}

// SourceURL resolves migrationsPath to an absolute file:// URL and checks that
// it is a directory, so a wrong MIGRATION_PATH fails with the path in the error.
func SourceURL(migrationsPath string) (string, error) {
	absolute, err := filepath.Abs(migrationsPath)
	if err != nil {
		return "", fmt.Errorf("migration: resolve %q: %w", migrationsPath, err)
	}

	info, err := os.Stat(absolute)
	if err != nil {
		return "", fmt.Errorf("migration: migrations directory %q: %w", absolute, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("migration: %q is not a directory", absolute)
	}

	return "file://" + filepath.ToSlash(absolute), nil
}

// PGX5URL rewrites a postgres:// or postgresql:// URL to the pgx5:// scheme
// of the golang-migrate pgx/v5 driver. Other inputs are returned unchanged.
func PGX5URL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger sends golang-migrate output to slog at debug level.
type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug("migration_progress", slog.String("detail", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (l *migrateLogger) Verbose() bool {
	return false
}
