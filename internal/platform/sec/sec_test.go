// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package sec_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medscope/medscope/internal/platform/sec"
)

/*
TestPasswordHash verifies the bcrypt round trip.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("s3cret:with:colons")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("s3cret:with:colons", hash))
	assert.False(t, sec.CheckPasswordHash("s3cret", hash))
	assert.False(t, sec.CheckPasswordHash("s3cret:with:colons", "not-a-hash"))
}

/*
TestGenerateSecureToken verifies length, alphabet and uniqueness of session secrets.
*/
func TestGenerateSecureToken(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		token, err := sec.GenerateSecureToken(16)
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		assert.Len(t, raw, 16)

		_, duplicate := seen[token]
		assert.False(t, duplicate)
		seen[token] = struct{}{}
	}

	_, err := sec.GenerateSecureToken(0)
	assert.Error(t, err)
}

/*
TestGenerateDownloadToken verifies that download secrets never contain '/' or '+'.
*/
func TestGenerateDownloadToken(t *testing.T) {
	for range 200 {
		token, err := sec.GenerateDownloadToken(8)
		require.NoError(t, err)

		assert.Len(t, token, 12)
		assert.NotContains(t, token, "/")
		assert.NotContains(t, token, "+")

		restored := strings.NewReplacer("-", "/", "_", "+").Replace(token)
		raw, err := base64.StdEncoding.DecodeString(restored)
		require.NoError(t, err)
		assert.Len(t, raw, 8)
	}
}

/*
TestGenerateAPIKey verifies the key is alphanumeric with the requested length.
*/
func TestGenerateAPIKey(t *testing.T) {
	key, err := sec.GenerateAPIKey(32)
	require.NoError(t, err)

	assert.Len(t, key, 32)
	for _, r := range key {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		assert.True(t, isAlnum, "unexpected rune %q", r)
	}
}

/*
TestHashToken verifies the digest is deterministic and hex-encoded.
*/
func TestHashToken(t *testing.T) {
	first := sec.HashToken("abc")
	assert.Equal(t, first, sec.HashToken("abc"))
	assert.NotEqual(t, first, sec.HashToken("abd"))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", first)
}

/*
TestUserRole_AtLeast verifies the role hierarchy.
*/
func TestUserRole_AtLeast(t *testing.T) {
	tests := []struct {
		role     sec.UserRole
		target   sec.UserRole
		expected bool
	}{
		{sec.RoleAdmin, sec.RoleAdmin, true},
		{sec.RoleAdmin, sec.RoleUser, true},
		{sec.RoleCompanyOperator, sec.RoleAdmin, false},
		{sec.RoleUser, sec.RoleCompanyOperator, false},
		{sec.UserRole("ghost"), sec.RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"_"+string(tt.target), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.AtLeast(tt.target))
		})
	}

	assert.False(t, sec.UserRole("ghost").Valid())
	assert.True(t, sec.RoleCompanyOperator.Valid())
}
