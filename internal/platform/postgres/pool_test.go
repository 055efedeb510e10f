// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medscope/medscope/internal/platform/postgres"
)

/*
TestConfig verifies pool settings and DSN overrides.
*/
func TestConfig(t *testing.T) {
	cfg, err := postgres.Config("postgres://medscope:secret@db:5432/medscope")
	require.NoError(t, err)
	assert.EqualValues(t, 20, cfg.MaxConns)
	assert.EqualValues(t, 2, cfg.MinConns)
	assert.Equal(t, "medscope-api", cfg.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "30000", cfg.ConnConfig.RuntimeParams["statement_timeout"])
	assert.NotNil(t, cfg.AfterConnect)

	cfg, err = postgres.Config("postgres://medscope@db/medscope?pool_max_conns=7&application_name=medscope-reaper")
	require.NoError(t, err)
	assert.EqualValues(t, 7, cfg.MaxConns)
	assert.Equal(t, "medscope-reaper", cfg.ConnConfig.RuntimeParams["application_name"])

	_, err = postgres.Config("postgres://%zz")
	assert.Error(t, err)
}
