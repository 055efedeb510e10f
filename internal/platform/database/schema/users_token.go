// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package schema

// UserTokenTable represents the 'users.token' table
type UserTokenTable struct {
	Table     string
	ID        string
	UserID    string
	ValueHash string
	CreatedAt string
	UpdatedAt string

	// UserIDKey is the unique constraint enforcing one live token per user.
	UserIDKey string
}

// UserToken is the schema definition for users.token
var UserToken = UserTokenTable{
	Table:     "users.token",
	ID:        "id",
	UserID:    "userid",
	ValueHash: "valuehash",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
	UserIDKey: "token_userid_key",
}

// Columns returns all standard column names
func (t UserTokenTable) Columns() []string {
	return []string{t.ID, t.UserID, t.ValueHash, t.CreatedAt, t.UpdatedAt}
}
