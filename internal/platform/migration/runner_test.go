// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package migration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medscope/medscope/internal/platform/migration"
)

/*
TestPGX5URL verifies the scheme rewrite for golang-migrate.
*/
func TestPGX5URL(t *testing.T) {
	tests := []struct {
		in  string
		out string
	}{
		{"postgres://u:p@db:5432/medscope", "pgx5://u:p@db:5432/medscope"},
		{"postgresql://u@db/medscope?sslmode=disable", "pgx5://u@db/medscope?sslmode=disable"},
		{"pgx5://u@db/medscope", "pgx5://u@db/medscope"},
		{"host=db user=u", "host=db user=u"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.out, migration.PGX5URL(tt.in))
		})
	}
}

/*
TestSourceURL verifies that the migrations directory is resolved and checked.
*/
func TestSourceURL(t *testing.T) {
	dir := t.TempDir()

	source, err := migration.SourceURL(dir)
	require.NoError(t, err)
	assert.Equal(t, "file://"+filepath.ToSlash(dir), source)

	_, err = migration.SourceURL(filepath.Join(dir, "missing"))
	assert.ErrorContains(t, err, "missing")

	file := filepath.Join(dir, "000001_users.up.sql")
	require.NoError(t, os.WriteFile(file, []byte("SELECT 1;"), 0o600))
	_, err = migration.SourceURL(file)
	assert.ErrorContains(t, err, "not a directory")
}
