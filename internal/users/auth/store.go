// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package auth

import (
	"context"

	"github.com/medscope/medscope/internal/platform/sec"
)

// # Credential Data Access

// CredentialRepository defines the data access contract for credential records.
type CredentialRepository interface {

	/*
		FindByEmail returns the credential with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Credential: Hydrated entity
		  - error: apperr.NotFound("User") or database failures
	*/
	FindByEmail(context context.Context, email string) (*Credential, error)

	/*
		Create persists a brand-new credential record.

		Parameters:
		  - context: context.Context
		  - credential: *Credential

		Returns:
		  - error: apperr.Conflict when the email is taken, or persistence failures
	*/
	Create(context context.Context, credential *Credential) error

	/*
		RecordFailure atomically increments the failure counter and stamps the
		failure time in a single statement.

		Parameters:
		  - context: context.Context
		  - id: string
		  - at: string (timestamp formatted with FailureTimestampLayout)

		Returns:
		  - int: The counter value after the increment
		  - error: Persistence failures
	*/
	RecordFailure(context context.Context, id string, at string) (int, error)

	/*
		ResetFailures sets the failure counter to 0 and clears the failure time.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	ResetFailures(context context.Context, id string) error
}

// # Session Token Data Access

// TokenRepository defines the data access contract for session tokens.
type TokenRepository interface {

	/*
		Upsert stores a token for token.UserID. When the user already owns a
		token, its value hash is replaced in place and the existing row is returned.

		Parameters:
		  - context: context.Context
		  - token: *Token (ID used only when inserting)

		Returns:
		  - *Token: The stored row
		  - error: Persistence failures
	*/
	Upsert(context context.Context, token *Token) (*Token, error)

	/*
		ResolveIdentity returns the owner of the token with the given value hash.

		Parameters:
		  - context: context.Context
		  - valueHash: string

		Returns:
		  - *sec.Identity: The token owner
		  - error: apperr.NotFound("Token") or database failures
	*/
	ResolveIdentity(context context.Context, valueHash string) (*sec.Identity, error)

	/*
		FindByID returns a single token.

		Returns:
		  - *Token: Hydrated entity
		  - error: apperr.NotFound("Token") or database failures
	*/
	FindByID(context context.Context, id string) (*Token, error)

	/*
		List returns every live token, newest first.
	*/
	List(context context.Context) ([]*Token, error)

	/*
		Delete removes one token.

		Returns:
		  - error: apperr.NotFound("Token") when no row was deleted
	*/
	Delete(context context.Context, id string) error

	/*
		DeleteAll removes every token.

		Returns:
		  - int64: Number of deleted rows
		  - error: Persistence failures
	*/
	DeleteAll(context context.Context) (int64, error)
}
