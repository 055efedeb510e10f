// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package apikey

import "context"

// Repository defines the data access contract for API keys.
type Repository interface {

	/*
		List returns every stored key, oldest first.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*APIKey: Stored keys with their hashes
		  - error: Database failures
	*/
	List(context context.Context) ([]*APIKey, error)

	/*
		CreateBounded inserts a key unless max keys already exist.

		Description: The count and the insert run under one table lock, so
		concurrent creations cannot exceed the bound.

		Parameters:
		  - context: context.Context
		  - key: *APIKey
		  - max: int

		Returns:
		  - error: Unauthorized(maximumApiKeysReached), Conflict(apiKeyAlreadyExists) or database failures
	*/
	CreateBounded(context context.Context, key *APIKey, max int) error

	/*
		Delete removes one key.

		Returns:
		  - error: apperr.NotFound("API key") when no row was deleted
	*/
	Delete(context context.Context, id string) error
}
