// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/medscope/medscope/internal/platform/apperr"
	"github.com/medscope/medscope/internal/platform/dberr"
)

/*
TestWrap verifies the classification of storage errors.
*/
func TestWrap(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "apikey_name_key"}

	tests := []struct {
		name string
		err  error
		kind apperr.Kind
	}{
		{"no_rows", fmt.Errorf("postgres_token_find_failed: %w", pgx.ErrNoRows), apperr.KindNotFound},
		{"unique", fmt.Errorf("postgres_apikey_create_failed: %w", unique), apperr.KindConflict},
		{"other", errors.New("connection reset"), apperr.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, apperr.KindOf(dberr.Wrap(tt.err, "API key")))
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "API key"))

	// Repositories prefix the classified error with their operation.
	wrapped := fmt.Errorf("postgres_token_repo_find_by_id_failed: %w", dberr.Wrap(pgx.ErrNoRows, "Token"))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(wrapped))
	assert.Equal(t, "Token not found", apperr.As(wrapped).Message)
	assert.True(t, dberr.IsUniqueViolation(unique, "apikey_name_key"))
	assert.False(t, dberr.IsUniqueViolation(unique, "apikey_pkey"))
}
