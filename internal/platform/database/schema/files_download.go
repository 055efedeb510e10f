// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package schema

// FileDownloadTable represents the 'files.download' table
type FileDownloadTable struct {
	Table     string
	ID        string
	FilePath  string
	TokenHash string
	Kind      string
	ExpiresAt string
	UsedAt    string
	CreatedAt string
}

// FileDownload is the schema definition for files.download
var FileDownload = FileDownloadTable{
	Table:     "files.download",
	ID:        "id",
	FilePath:  "filepath",
	TokenHash: "tokenhash",
	Kind:      "kind",
	ExpiresAt: "expiresat",
	UsedAt:    "usedat",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t FileDownloadTable) Columns() []string {
	return []string{t.ID, t.FilePath, t.TokenHash, t.Kind, t.ExpiresAt, t.UsedAt, t.CreatedAt}
}
