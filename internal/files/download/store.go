// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package download

import (
	"context"
	"time"
)

// Repository defines the data access contract for download tokens.
type Repository interface {

	/*
		Create persists a new token.

		Parameters:
		  - context: context.Context
		  - download: *Download

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, download *Download) error

	/*
		FindByTokenHash returns the token whose secret hashes to tokenHash.

		Returns:
		  - *Download: Hydrated entity
		  - error: apperr.NotFound("File download") or database failures
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*Download, error)

	/*
		FindByID returns a token by its row ID.

		Returns:
		  - *Download: Hydrated entity
		  - error: apperr.NotFound("File download") or database failures
	*/
	FindByID(context context.Context, id string) (*Download, error)

	/*
		Consume marks the token used at now, but only while it is unused and unexpired.

		Description: This is the single compare-and-set of the redemption flow.

		Parameters:
		  - context: context.Context
		  - id: string
		  - now: time.Time

		Returns:
		  - bool: true when this call consumed the token
		  - error: Database failures
	*/
	Consume(context context.Context, id string, now time.Time) (bool, error)

	/*
		List returns one page of tokens, newest first, and the total count.
	*/
	List(context context.Context, limit, offset int) ([]*Download, int, error)

	/*
		DeleteAll removes every token.
	*/
	DeleteAll(context context.Context) (int64, error)

	/*
		DeleteExpired removes tokens whose expiry is before now, used or not.

		Returns:
		  - int64: Number of deleted rows
		  - error: Database failures
	*/
	DeleteExpired(context context.Context, now time.Time) (int64, error)
}
