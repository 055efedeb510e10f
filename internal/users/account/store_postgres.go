// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

/*
Package account (Postgres) implements the storage layer for user profiles.

# Schema Table Mapping
  - users.account: Master identity and profile data.
  - users.token: Removed by ON DELETE CASCADE with its owner.
*/
package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medscope/medscope/internal/platform/apperr"
	"github.com/medscope/medscope/internal/platform/database/schema"
	"github.com/medscope/medscope/internal/platform/dberr"
)

// # Repository Implementations

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for profile management.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// selectProfile returns the projection shared by FindByID and List.
func selectProfile() string {
	account := schema.UserAccount
	return fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s`,
		account.ID, account.Name, account.FirstName, account.Email, account.Role,
		account.FailedLoginCount, account.CreatedAt, account.UpdatedAt,
		account.Table,
	)
}

// # AccountRepository Methods

/*
FindByID retrieves a user record from the users.account table.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Profile: Hydrated entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*Profile, error) {
	query := selectProfile() + fmt.Sprintf(` WHERE %s = $1`, schema.UserAccount.ID)

	rows, err := repository.pool.Query(context, query, id)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	profile, err := pgx.CollectExactlyOneRow(rows, scanProfile)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", dberr.Wrap(err, "User"))
	}

	return profile, nil
}

/*
List returns every account ordered by name then first name.
*/
func (repository *PostgresAccountRepository) List(context context.Context) ([]*Profile, error) {
	account := schema.UserAccount
	query := selectProfile() + fmt.Sprintf(` ORDER BY %s, %s`, account.Name, account.FirstName)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}

	profiles, err := pgx.CollectRows(rows, scanProfile)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_list_scan_failed: %w", err)
	}

	return profiles, nil
}

/*
Update syncs the name fields and refreshes the updatedat timestamp.

Parameters:
  - context: context.Context
  - profile: *Profile

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) Update(context context.Context, profile *Profile) error {
	account := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		account.Table,
		account.Name, account.FirstName, account.UpdatedAt,
		account.ID,
		account.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query, profile.ID, profile.Name, profile.FirstName).Scan(&profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_failed: %w", dberr.Wrap(err, "User"))
	}

	return nil
}

/*
Unlock resets the brute-force counters of one account.
*/
func (repository *PostgresAccountRepository) Unlock(context context.Context, id string) error {
	account := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = 0, %s = NULL, %s = NOW()
		WHERE %s = $1`,
		account.Table,
		account.FailedLoginCount, account.LastFailedLoginAt, account.UpdatedAt,
		account.ID,
	)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_unlock_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
Delete removes an account row.
*/
func (repository *PostgresAccountRepository) Delete(context context.Context, id string) error {
	account := schema.UserAccount
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, account.Table, account.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// # Helpers

func scanProfile(row pgx.CollectableRow) (*Profile, error) {
	profile := &Profile{}
	err := row.Scan(
		&profile.ID,
		&profile.Name,
		&profile.FirstName,
		&profile.Email,
		&profile.Role,
		&profile.FailedLoginCount,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	return profile, err
}
