// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

/*
Package auth implements credential login and session tokens.

It owns the credential records (password hash plus brute-force counters), the
one-per-user session bearer tokens, and the Basic-Auth login flow that ties them
together.

# Architecture

  - Service: the login state machine (lockout check, password check, bookkeeping).
  - SessionManager: issue/rotate, resolve, revoke and list session tokens.
  - Repositories: PostgreSQL-backed, with atomic counters and an upsert keyed on the user.
*/
package auth

import (
	"errors"
	"time"

	"github.com/medscope/medscope/internal/platform/sec"
)

// # Domain Entities

// Credential is a user account as seen by the login flow.
type Credential struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	FirstName    string       `json:"firstname"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         sec.UserRole `json:"role"`

	// FailedLoginCount counts consecutive failures since the last success or reset.
	FailedLoginCount int `json:"-"`

	// LastFailedLoginAt is the raw stored timestamp of the most recent failure.
	LastFailedLoginAt *string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// errMissingFailureTimestamp is returned by [Credential.LastFailure] when a
// locked-out record carries no timestamp at all. The login flow treats this as
// corrupt state and refuses the attempt instead of skipping the lockout check.
var errMissingFailureTimestamp = errors.New("auth: failed login timestamp is missing")

// LastFailure parses the stored timestamp of the most recent failed login.
func (c *Credential) LastFailure() (time.Time, error) {
	if c.LastFailedLoginAt == nil || *c.LastFailedLoginAt == "" {
		return time.Time{}, errMissingFailureTimestamp
	}
	return time.Parse(FailureTimestampLayout, *c.LastFailedLoginAt)
}

// Token is a persisted session token. The bearer value itself is never stored.
type Token struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ValueHash string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IssuedToken is returned exactly once, at login, and carries the raw bearer value.
type IssuedToken struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Value  string `json:"value"`
}

// # Field Identifiers

const (
	FieldTokenID = "tokenID"
	FieldEmail   = "email"
)
