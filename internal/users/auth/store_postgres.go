// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medscope/medscope/internal/platform/apperr"
	"github.com/medscope/medscope/internal/platform/database/schema"
	"github.com/medscope/medscope/internal/platform/dberr"
	"github.com/medscope/medscope/internal/platform/sec"
)

// # Credential Repository

// PostgresCredentialRepository implements [CredentialRepository] using pgx.
type PostgresCredentialRepository struct {
	pool *pgxpool.Pool
}

// NewCredentialRepository creates a new PostgreSQL implementation of the CredentialRepository.
func NewCredentialRepository(pool *pgxpool.Pool) *PostgresCredentialRepository {
	return &PostgresCredentialRepository{pool: pool}
}

/*
FindByEmail retrieves a credential by its unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Credential: Hydrated entity, counters included
  - error: apperr.NotFound("User") or database errors
*/
func (repository *PostgresCredentialRepository) FindByEmail(context context.Context, email string) (*Credential, error) {
	account := schema.UserAccount
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		account.ID, account.Name, account.FirstName, account.Email, account.Password,
		account.Role, account.FailedLoginCount, account.LastFailedLoginAt,
		account.CreatedAt, account.UpdatedAt,
		account.Table, account.Email,
	)

	credential := &Credential{}
	err := repository.pool.QueryRow(context, query, email).Scan(
		&credential.ID,
		&credential.Name,
		&credential.FirstName,
		&credential.Email,
		&credential.PasswordHash,
		&credential.Role,
		&credential.FailedLoginCount,
		&credential.LastFailedLoginAt,
		&credential.CreatedAt,
		&credential.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("postgres_credential_repo_find_by_email_failed: %w", dberr.Wrap(err, "User"))
	}

	return credential, nil
}

/*
Create persists a new credential record into the users.account table.

Parameters:
  - context: context.Context
  - credential: *Credential

Returns:
  - error: apperr.Conflict for a duplicate email, or database errors
*/
func (repository *PostgresCredentialRepository) Create(context context.Context, credential *Credential) error {
	account := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		account.Table,
		account.ID, account.Name, account.FirstName, account.Email, account.Password,
		account.Role, account.CreatedAt, account.UpdatedAt,
	)

	now := time.Now()
	credential.CreatedAt = now
	credential.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		credential.ID,
		credential.Name,
		credential.FirstName,
		credential.Email,
		credential.PasswordHash,
		credential.Role,
		now,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err, account.EmailKey) {
			return apperr.Conflict("Email is already registered")
		}
		return fmt.Errorf("postgres_credential_repo_create_failed: %w", err)
	}

	return nil
}

/*
RecordFailure increments the failure counter and stamps the failure time.

Description: The increment happens in SQL so concurrent failures never lose the
timestamp update; at worst two racing requests observe the same count.

Parameters:
  - context: context.Context
  - id: string
  - at: string

Returns:
  - int: Counter value after the increment
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresCredentialRepository) RecordFailure(context context.Context, id string, at string) (int, error) {
	account := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = %s + 1, %s = $2, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		account.Table,
		account.FailedLoginCount, account.FailedLoginCount, account.LastFailedLoginAt, account.UpdatedAt,
		account.ID,
		account.FailedLoginCount,
	)

	var count int
	if err := repository.pool.QueryRow(context, query, id, at).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_credential_repo_record_failure_failed: %w", dberr.Wrap(err, "User"))
	}

	return count, nil
}

/*
ResetFailures clears the brute-force counters of a credential.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Database errors
*/
func (repository *PostgresCredentialRepository) ResetFailures(context context.Context, id string) error {
	account := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = 0, %s = NULL, %s = NOW()
		WHERE %s = $1`,
		account.Table,
		account.FailedLoginCount, account.LastFailedLoginAt, account.UpdatedAt,
		account.ID,
	)

	if _, err := repository.pool.Exec(context, query, id); err != nil {
		return fmt.Errorf("postgres_credential_repo_reset_failures_failed: %w", err)
	}

	return nil
}

// # Token Repository

// PostgresTokenRepository implements [TokenRepository] using pgx.
type PostgresTokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository creates a new PostgreSQL implementation of TokenRepository.
func NewTokenRepository(pool *pgxpool.Pool) *PostgresTokenRepository {
	return &PostgresTokenRepository{pool: pool}
}

/*
Upsert inserts the token or rotates the value of the user's existing token.

Description: The unique constraint on userid makes "one live token per user" a
storage invariant. Concurrent logins for the same user serialize on that row.

Parameters:
  - context: context.Context
  - token: *Token

Returns:
  - *Token: The stored row (existing ID on rotation)
  - error: Database errors
*/
func (repository *PostgresTokenRepository) Upsert(context context.Context, token *Token) (*Token, error) {
	table := schema.UserToken
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT ON CONSTRAINT %s
		DO UPDATE SET %s = EXCLUDED.%s, %s = EXCLUDED.%s
		RETURNING %s, %s, %s, %s, %s`,
		table.Table,
		table.ID, table.UserID, table.ValueHash, table.CreatedAt, table.UpdatedAt,
		table.UserIDKey,
		table.ValueHash, table.ValueHash, table.UpdatedAt, table.UpdatedAt,
		table.ID, table.UserID, table.ValueHash, table.CreatedAt, table.UpdatedAt,
	)

	stored := &Token{}
	err := repository.pool.QueryRow(context, query,
		token.ID,
		token.UserID,
		token.ValueHash,
		time.Now(),
	).Scan(
		&stored.ID,
		&stored.UserID,
		&stored.ValueHash,
		&stored.CreatedAt,
		&stored.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("postgres_token_repo_upsert_failed: %w", err)
	}

	return stored, nil
}

/*
ResolveIdentity joins the token with its owner account.

Parameters:
  - context: context.Context
  - valueHash: string

Returns:
  - *sec.Identity: The owner of the token
  - error: apperr.NotFound("Token") or database errors
*/
func (repository *PostgresTokenRepository) ResolveIdentity(context context.Context, valueHash string) (*sec.Identity, error) {
	token, account := schema.UserToken, schema.UserAccount
	query := fmt.Sprintf(`
		SELECT t.%s, a.%s, a.%s, a.%s
		FROM %s t
		JOIN %s a ON a.%s = t.%s
		WHERE t.%s = $1`,
		token.ID, account.ID, account.Email, account.Role,
		token.Table,
		account.Table, account.ID, token.UserID,
		token.ValueHash,
	)

	identity := &sec.Identity{}
	err := repository.pool.QueryRow(context, query, valueHash).Scan(
		&identity.TokenID,
		&identity.UserID,
		&identity.Email,
		&identity.Role,
	)

	if err != nil {
		return nil, fmt.Errorf("postgres_token_repo_resolve_failed: %w", dberr.Wrap(err, "Token"))
	}

	return identity, nil
}

/*
FindByID retrieves a session token by its ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Token: Hydrated entity
  - error: apperr.NotFound("Token") or database errors
*/
func (repository *PostgresTokenRepository) FindByID(context context.Context, id string) (*Token, error) {
	table := schema.UserToken
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		table.ID, table.UserID, table.ValueHash, table.CreatedAt, table.UpdatedAt,
		table.Table, table.ID,
	)

	token := &Token{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&token.ID, &token.UserID, &token.ValueHash, &token.CreatedAt, &token.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("postgres_token_repo_find_by_id_failed: %w", dberr.Wrap(err, "Token"))
	}

	return token, nil
}

/*
List retrieves every session token, most recently rotated first.

Parameters:
  - context: context.Context

Returns:
  - []*Token: All tokens
  - error: Database errors
*/
func (repository *PostgresTokenRepository) List(context context.Context) ([]*Token, error) {
	table := schema.UserToken
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s ORDER BY %s DESC`,
		table.ID, table.UserID, table.ValueHash, table.CreatedAt, table.UpdatedAt,
		table.Table, table.UpdatedAt,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_token_repo_list_failed: %w", err)
	}

	tokens, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Token, error) {
		token := &Token{}
		err := row.Scan(&token.ID, &token.UserID, &token.ValueHash, &token.CreatedAt, &token.UpdatedAt)
		return token, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres_token_repo_list_scan_failed: %w", err)
	}

	return tokens, nil
}

/*
Delete removes a single session token.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound("Token") when nothing was deleted
*/
func (repository *PostgresTokenRepository) Delete(context context.Context, id string) error {
	table := schema.UserToken
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_token_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Token")
	}

	return nil
}

/*
DeleteAll removes every session token.

Parameters:
  - context: context.Context

Returns:
  - int64: Number of revoked tokens
  - error: Database errors
*/
func (repository *PostgresTokenRepository) DeleteAll(context context.Context) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s`, schema.UserToken.Table)

	tag, err := repository.pool.Exec(context, query)
	if err != nil {
		return 0, fmt.Errorf("postgres_token_repo_delete_all_failed: %w", err)
	}

	return tag.RowsAffected(), nil
}
