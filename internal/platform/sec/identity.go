// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package sec

// Identity is the caller resolved from a session bearer token.
//
// It is rebuilt from the database on every authenticated request, so role changes
// and revocations take effect immediately.
type Identity struct {
	UserID  string   `json:"user_id"`
	TokenID string   `json:"token_id"`
	Email   string   `json:"email"`
	Role    UserRole `json:"role"`
}

// IsAdmin reports whether the identity holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
