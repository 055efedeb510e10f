// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

// Package schema names the tables and columns used by the PostgreSQL repositories.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table             string
	ID                string
	Name              string
	FirstName         string
	Email             string
	Password          string
	Role              string
	FailedLoginCount  string
	LastFailedLoginAt string
	CreatedAt         string
	UpdatedAt         string

	// EmailKey is the unique constraint on the login email.
	EmailKey string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:             "users.account",
	ID:                "id",
	Name:              "name",
	FirstName:         "firstname",
	Email:             "email",
	Password:          "passwordhash",
	Role:              "role",
	FailedLoginCount:  "failedlogincount",
	LastFailedLoginAt: "lastfailedloginat",
	CreatedAt:         "createdat",
	UpdatedAt:         "updatedat",
	EmailKey:          "account_email_key",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.FirstName, t.Email, t.Password, t.Role,
		t.FailedLoginCount, t.LastFailedLoginAt, t.CreatedAt, t.UpdatedAt,
	}
}
