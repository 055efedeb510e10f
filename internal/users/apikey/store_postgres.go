// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package apikey

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medscope/medscope/internal/platform/apperr"
	"github.com/medscope/medscope/internal/platform/database/schema"
	"github.com/medscope/medscope/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// List returns every stored key, oldest first.
func (repository *PostgresRepository) List(context context.Context) ([]*APIKey, error) {
	table := schema.UserAPIKey
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		ORDER BY %s`,
		table.ID, table.Name, table.ValueHash, table.CreatedAt,
		table.Table,
		table.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_apikey_repo_list_failed: %w", err)
	}

	keys, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*APIKey, error) {
		key := &APIKey{}
		err := row.Scan(&key.ID, &key.Name, &key.ValueHash, &key.CreatedAt)
		return key, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres_apikey_repo_list_scan_failed: %w", err)
	}

	return keys, nil
}

/*
CreateBounded inserts a key while holding a SHARE ROW EXCLUSIVE lock on the table.

Parameters:
  - context: context.Context
  - key: *APIKey
  - max: int

Returns:
  - error: apperr.Unauthorized(maximumApiKeysReached), apperr.Conflict(apiKeyAlreadyExists)
    or database failures
*/
func (repository *PostgresRepository) CreateBounded(context context.Context, key *APIKey, max int) error {
	table := schema.UserAPIKey

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_apikey_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	// Serialize concurrent creations; readers are not blocked.
	if _, err := transaction.Exec(context, fmt.Sprintf(`LOCK TABLE %s IN SHARE ROW EXCLUSIVE MODE`, table.Table)); err != nil {
		return fmt.Errorf("postgres_apikey_repo_lock_failed: %w", err)
	}

	var count int
	if err := transaction.QueryRow(context, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table.Table)).Scan(&count); err != nil {
		return fmt.Errorf("postgres_apikey_repo_count_failed: %w", err)
	}
	if count >= max {
		return apperr.Unauthorized("Maximum number of API keys reached").WithReason(apperr.ReasonMaximumAPIKeysReached)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)`,
		table.Table,
		table.ID, table.Name, table.ValueHash, table.CreatedAt,
	)

	key.CreatedAt = time.Now()
	if _, err := transaction.Exec(context, query, key.ID, key.Name, key.ValueHash, key.CreatedAt); err != nil {
		if dberr.IsUniqueViolation(err, table.NameKey) {
			return apperr.Conflict("An API key with this name already exists").WithReason(apperr.ReasonAPIKeyAlreadyExists)
		}
		return fmt.Errorf("postgres_apikey_repo_create_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_apikey_repo_commit_failed: %w", err)
	}

	return nil
}

// Delete removes one key.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	table := schema.UserAPIKey
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_apikey_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("API key")
	}

	return nil
}
