// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

/*
Package uuid provides time-ordered unique identifiers for the platform.

It wraps the google/uuid library to generate Version 7 values, which sort by
creation time and keep PostgreSQL B-tree indexes compact.

Every primary key in Medscope (accounts, session tokens, API keys, download
tokens) and every generated request ID comes from here.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// # Parsing

// Valid reports whether s is a well-formed UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
