// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

/*
Package apikey implements the service-level API key gate and its administration.

Every /api route requires a valid "api-key" header. Keys are stored as bcrypt
hashes, so verification compares the header against each stored key. At most
[MaxKeys] keys exist at once.
*/
package apikey

import "time"

// # Constraints

const (
	// MaxKeys is the number of keys that may exist concurrently.
	MaxKeys = 3

	// KeyLength is the number of alphanumeric characters in a generated key.
	KeyLength = 32
)

// # Domain Entities

// APIKey is a stored key. The raw value is never persisted.
type APIKey struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ValueHash string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// IssuedKey is returned exactly once, at creation, and carries the raw key.
type IssuedKey struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// # Field Identifiers

const (
	FieldAPIKeyID = "apiKeyID"
	FieldName     = "name"
)
