// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// # Secret Generation

const apiKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSecureToken returns n random bytes encoded as unpadded URL-safe base64.
func GenerateSecureToken(n int) (string, error) {
	raw, err := randomBytes(n)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// GenerateDownloadToken returns n random bytes in standard base64 with the two
// path-hostile characters swapped ('/' becomes '-', '+' becomes '_').
func GenerateDownloadToken(n int) (string, error) {
	raw, err := randomBytes(n)
	if err != nil {
		return "", err
	}
	encoded := base64.StdEncoding.EncodeToString(raw)
	return strings.NewReplacer("/", "-", "+", "_").Replace(encoded), nil
}

// GenerateAPIKey returns a random alphanumeric key of the given length.
func GenerateAPIKey(length int) (string, error) {
	limit := big.NewInt(int64(len(apiKeyAlphabet)))
	var builder strings.Builder
	builder.Grow(length)

	for range length {
		index, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("sec: failed to read random index: %w", err)
		}
		builder.WriteByte(apiKeyAlphabet[index.Int64()])
	}
	return builder.String(), nil
}

// # Digests

// HashToken returns the hex SHA-256 digest of a bearer secret.
//
// Session and download secrets are high-entropy random values, so a fast digest is
// enough to keep raw values out of the database while still allowing indexed lookup.
func HashToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func randomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sec: invalid token length %d", n)
	}
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return raw, nil
}
