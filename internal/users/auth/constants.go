// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package auth

import "time"

// # Authentication Constraints

const (
	// MaxFailedAttempts is the failure count at which an account locks.
	MaxFailedAttempts = 5

	// LockoutWindow is how long a locked account stays locked after its last failure.
	LockoutWindow = 24 * time.Hour

	// SessionTokenLength is the byte length of the random session bearer value.
	SessionTokenLength = 16

	// FailureTimestampLayout is the text layout of lastfailedloginat.
	FailureTimestampLayout = time.RFC3339Nano
)
