// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package redis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medscope/medscope/internal/platform/redis"
)

/*
TestOptions verifies URL parsing and the lease client settings.
*/
func TestOptions(t *testing.T) {
	options, err := redis.Options("redis://:secret@cache:6380/3")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", options.Addr)
	assert.Equal(t, 3, options.DB)
	assert.Equal(t, "secret", options.Password)
	assert.Equal(t, "medscope-api", options.ClientName)
	assert.Equal(t, 2, options.PoolSize)

	_, err = redis.Options("http://cache:6379")
	assert.Error(t, err)
}
