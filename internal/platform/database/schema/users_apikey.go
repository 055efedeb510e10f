// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package schema

// UserAPIKeyTable represents the 'users.apikey' table
type UserAPIKeyTable struct {
	Table     string
	ID        string
	Name      string
	ValueHash string
	CreatedAt string

	// NameKey is the unique constraint on the display name.
	NameKey string
}

// UserAPIKey is the schema definition for users.apikey
var UserAPIKey = UserAPIKeyTable{
	Table:     "users.apikey",
	ID:        "id",
	Name:      "name",
	ValueHash: "valuehash",
	CreatedAt: "createdat",
	NameKey:   "apikey_name_key",
}

// Columns returns all standard column names
func (t UserAPIKeyTable) Columns() []string {
	return []string{t.ID, t.Name, t.ValueHash, t.CreatedAt}
}
