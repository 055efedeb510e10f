// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

/*
Package account handles user profiles and their administration.

It lets a user read and edit their own profile, and lets administrators
provision, inspect, unlock and remove accounts.

# Architecture

  - Entities: Profile (credential record without the password hash).
  - Domain: Provisioning goes through the auth package so passwords are always hashed there.
  - Security: Unlock clears the brute-force counters kept by the login flow.
*/
package account

import (
	"context"
	"time"

	"github.com/medscope/medscope/internal/platform/sec"
)

// # Domain Entities

// Profile is the public view of a user account.
type Profile struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	FirstName        string       `json:"firstname"`
	Email            string       `json:"email"`
	Role             sec.UserRole `json:"role"`
	FailedLoginCount int          `json:"failed_login_count"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldUserID    = "userID"
	FieldName      = "name"
	FieldFirstName = "firstname"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldRole      = "role"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Profile: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Profile, error)

	/*
		List returns every account ordered by name.
	*/
	List(context context.Context) ([]*Profile, error)

	/*
		Update modifies the mutable profile fields of an existing user.

		Parameters:
		  - context: context.Context
		  - profile: *Profile (Hydrated entity with changes)

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	Update(context context.Context, profile *Profile) error

	/*
		Unlock clears the failed login counter and timestamp.

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	Unlock(context context.Context, id string) error

	/*
		Delete removes an account. Its session token goes with it.

		Returns:
		  - error: apperr.NotFound when no row was deleted
	*/
	Delete(context context.Context, id string) error
}
