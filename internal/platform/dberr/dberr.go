// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medscope/medscope/internal/platform/apperr"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique-constraint violation.
const uniqueViolation = "23505"

// IsNoRows reports whether err is pgx's "no rows in result set".
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
// When constraint is non-empty, the violated constraint name must match too.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// Wrap classifies a storage error for single-row reads and writes: no rows
// becomes NotFound(resource), a unique violation becomes Conflict, anything
// else is Internal. Callers wrap the result with their operation prefix.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if IsNoRows(err) {
		return apperr.NotFound(resource)
	}

	if IsUniqueViolation(err, "") {
		return apperr.Conflict(resource + " already exists")
	}

	return apperr.Internal(err)
}
