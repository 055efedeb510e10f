// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package download

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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

// selectDownload returns the projection shared by the single-row lookups.
func selectDownload(where string) string {
	table := schema.FileDownload
	return fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		table.ID, table.FilePath, table.TokenHash, table.Kind, table.ExpiresAt, table.UsedAt, table.CreatedAt,
		table.Table,
		where,
	)
}

/*
Create inserts a new token row.

Parameters:
  - context: context.Context
  - download: *Download

Returns:
  - error: Database failures
*/
func (repository *PostgresRepository) Create(context context.Context, download *Download) error {
	table := schema.FileDownload
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		table.Table,
		table.ID, table.FilePath, table.TokenHash, table.Kind, table.ExpiresAt, table.CreatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		download.ID,
		download.FilePath,
		download.TokenHash,
		download.Kind,
		download.ExpiresAt,
		download.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_download_repo_create_failed: %w", err)
	}

	return nil
}

// FindByTokenHash looks a token up by the digest of its secret.
func (repository *PostgresRepository) FindByTokenHash(context context.Context, tokenHash string) (*Download, error) {
	return repository.findOne(context, selectDownload(schema.FileDownload.TokenHash), tokenHash, "find_by_token_hash")
}

// FindByID looks a token up by its row ID.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Download, error) {
	return repository.findOne(context, selectDownload(schema.FileDownload.ID), id, "find_by_id")
}

func (repository *PostgresRepository) findOne(context context.Context, query, arg, op string) (*Download, error) {
	rows, err := repository.pool.Query(context, query, arg)
	if err != nil {
		return nil, fmt.Errorf("postgres_download_repo_%s_failed: %w", op, err)
	}

	download, err := pgx.CollectExactlyOneRow(rows, scanDownload)
	if err != nil {
		return nil, fmt.Errorf("postgres_download_repo_%s_failed: %w", op, dberr.Wrap(err, "File download"))
	}

	return download, nil
}

/*
Consume sets usedat with a conditional update.

Description: The WHERE clause re-checks both redemption conditions, so exactly one
of several concurrent callers sees a changed row.

Parameters:
  - context: context.Context
  - id: string
  - now: time.Time

Returns:
  - bool: Whether this call consumed the token
  - error: Database failures
*/
func (repository *PostgresRepository) Consume(context context.Context, id string, now time.Time) (bool, error) {
	table := schema.FileDownload
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2
		WHERE %s = $1 AND %s IS NULL AND %s > $2`,
		table.Table,
		table.UsedAt,
		table.ID, table.UsedAt, table.ExpiresAt,
	)

	tag, err := repository.pool.Exec(context, query, id, now)
	if err != nil {
		return false, fmt.Errorf("postgres_download_repo_consume_failed: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

/*
List returns one page of tokens with the total row count.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Download: Page content, newest first
  - int: Total number of rows
  - error: Database failures
*/
func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Download, int, error) {
	table := schema.FileDownload
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		ORDER BY %s DESC
		LIMIT $1 OFFSET $2`,
		table.ID, table.FilePath, table.TokenHash, table.Kind, table.ExpiresAt, table.UsedAt, table.CreatedAt,
		table.Table,
		table.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_download_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var (
		downloads []*Download
		total     int
	)
	for rows.Next() {
		download := &Download{}
		if err := rows.Scan(
			&download.ID,
			&download.FilePath,
			&download.TokenHash,
			&download.Kind,
			&download.ExpiresAt,
			&download.UsedAt,
			&download.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_download_repo_list_scan_failed: %w", err)
		}
		downloads = append(downloads, download)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_download_repo_list_rows_failed: %w", err)
	}

	return downloads, total, nil
}

// DeleteAll removes every token.
func (repository *PostgresRepository) DeleteAll(context context.Context) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s`, schema.FileDownload.Table)

	tag, err := repository.pool.Exec(context, query)
	if err != nil {
		return 0, fmt.Errorf("postgres_download_repo_delete_all_failed: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteExpired removes every token that expired before now.
func (repository *PostgresRepository) DeleteExpired(context context.Context, now time.Time) (int64, error) {
	table := schema.FileDownload
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s < $1`, table.Table, table.ExpiresAt)

	tag, err := repository.pool.Exec(context, query, now)
	if err != nil {
		return 0, fmt.Errorf("postgres_download_repo_delete_expired_failed: %w", err)
	}

	return tag.RowsAffected(), nil
}

func scanDownload(row pgx.CollectableRow) (*Download, error) {
	download := &Download{}
	err := row.Scan(
		&download.ID,
		&download.FilePath,
		&download.TokenHash,
		&download.Kind,
		&download.ExpiresAt,
		&download.UsedAt,
		&download.CreatedAt,
	)
	return download, err
}
