// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access, including token and API key administration
	RoleAdmin UserRole = "admin"

	// Operates on behalf of an implant company
	RoleCompanyOperator UserRole = "companyOperator"

	// Default role for clinicians
	RoleUser UserRole = "user"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	return r.level() > 0
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 30
	case RoleCompanyOperator:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}
