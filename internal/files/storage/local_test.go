// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package storage_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medscope/medscope/internal/files/storage"
	"github.com/medscope/medscope/internal/platform/apperr"
)

func newStore(t *testing.T) *storage.LocalStore {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"uploads/x.pdf":                 "%PDF-1.7 scan",
		"patients/42/report.txt":        "all clear",
		"patients/42/imaging/knee.json": `{"view":"AP"}`,
	}
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	store, err := storage.NewLocalStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

/*
TestLocalStore_Open covers file reads and the not-found mapping.
*/
func TestLocalStore_Open(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	object, err := store.Open(ctx, "uploads/x.pdf")
	require.NoError(t, err)
	defer object.Body.Close()

	body, err := io.ReadAll(object.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 scan", string(body))
	assert.Equal(t, "x.pdf", object.Name)
	assert.EqualValues(t, len(body), object.Size)
	assert.Equal(t, "application/pdf", object.ContentType)

	tests := []struct {
		name string
		key  string
	}{
		{"missing", "uploads/y.pdf"},
		{"directory", "uploads"},
		{"traversal", "../../etc/passwd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Open(ctx, tt.key)
			assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
		})
	}
}

/*
TestLocalStore_List verifies recursive folder listing.
*/
func TestLocalStore_List(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	entries, err := store.List(ctx, "patients/42")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "imaging/knee.json", entries[0].Path)
	assert.Equal(t, "report.txt", entries[1].Path)
	assert.EqualValues(t, len("all clear"), entries[1].Size)

	_, err = store.List(ctx, "patients/7")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = store.List(ctx, "uploads/x.pdf")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
