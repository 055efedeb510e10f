// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

// Package sec provides cryptographic primitives and identity types.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, secret
// generation, secret digests) from the domain logic. Domain packages never call
// crypto/* directly.
package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain-text password using the bcrypt algorithm.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
// The comparison is constant-time with respect to the hash contents.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
