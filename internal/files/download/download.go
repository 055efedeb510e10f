// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

/*
Package download issues and redeems single-use download capability tokens.

A token grants one download of a file, or of a folder as a zip archive, within
[TokenTTL] of issuance. Only a SHA-256 digest of the token is stored.

# Lifecycle

	Issued -> Consumed (used) -> Reaped
	Issued -> Expired           -> Reaped

Redemption validates the token, opens the blob, then consumes the token with a
conditional update before writing any byte, so two concurrent redemptions of
the same token can never both succeed.
*/
package download

import "time"

// # Constraints

const (
	// TokenLength is the number of random bytes behind a download token.
	TokenLength = 8

	// TokenTTL is how long an issued token stays redeemable.
	TokenTTL = time.Hour
)

// Kind distinguishes file tokens from folder tokens.
type Kind string

const (
	KindFile   Kind = "file"
	KindFolder Kind = "folder"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindFile || k == KindFolder
}

// # Domain Entities

// Download is a persisted capability token.
type Download struct {
	ID        string     `json:"id"`
	FilePath  string     `json:"path"`
	TokenHash string     `json:"-"`
	Kind      Kind       `json:"kind"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Redeemable reports whether the token may still be used at now.
func (d *Download) Redeemable(now time.Time) bool {
	return d.UsedAt == nil && now.Before(d.ExpiresAt)
}

// IssuedDownload is returned exactly once, at issuance, and carries the raw token.
type IssuedDownload struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Path      string    `json:"path"`
	Kind      Kind      `json:"kind"`
	ExpiresAt time.Time `json:"expires_at"`
}

// # Field Identifiers

const (
	FieldToken = "token"
	FieldPath  = "path"
)
