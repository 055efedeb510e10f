// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

/*
Package postgres opens the PostgreSQL pool behind every Medscope repository.

Consumers and their load:

  - users/auth: one indexed read per login and per bearer resolution, one
    single-statement update per failed login, one upsert per issued session.
  - users/apikey: a full scan of at most three keys per API request, and a short
    table-locking transaction when a key is created.
  - files/download: one insert per issued token and one conditional update per
    redemption.
  - the reaper: one bulk delete per interval.

All of them are short statements, so the pool stays small and bounds every
statement with [constants.StatementTimeout].
*/
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medscope/medscope/internal/platform/constants"
)

const (
	maxConns          = 20
	minConns          = 2
	maxConnLifetime   = 60 * time.Minute
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = 1 * time.Minute
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

/*
Config parses dsn and applies the Medscope pool settings.

Connections identify themselves as [constants.AppName] in pg_stat_activity.
Settings already present in dsn (pool_max_conns, application_name) win.
*/
func Config(dsn string) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	if !strings.Contains(dsn, "pool_max_conns") {
		poolConfig.MaxConns = maxConns
	}
	poolConfig.MinConns = minConns
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	if _, ok := poolConfig.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = constants.AppName
	}
	poolConfig.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%d", constants.StatementTimeout.Milliseconds())

	poolConfig.AfterConnect = func(ctx context.Context, connection *pgx.Conn) error {
		// timestamptz values come back in UTC.
		_, err := connection.Exec(ctx, "SET TIME ZONE 'UTC'")
		return err
	}

	return poolConfig, nil
}

// NewPool opens the pool described by dsn and verifies it with a ping.
func NewPool(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := Config(dsn)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("host", poolConfig.ConnConfig.Host),
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
	)

	return pool, nil
}

// Ping verifies that the pool can reach the database.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}

	return nil
}
