// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/medscope/medscope/internal/platform/apperr"
)

// LocalStore serves blobs from a directory.
type LocalStore struct {
	root *os.Root
}

// NewLocalStore opens dir as the store root. The directory must exist.
func NewLocalStore(dir string) (*LocalStore, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to open local root %q: %w", dir, err)
	}
	return &LocalStore{root: root}, nil
}

// Close releases the root directory handle.
func (store *LocalStore) Close() error {
	return store.root.Close()
}

// Open reads the file stored under key.
func (store *LocalStore) Open(_ context.Context, key string) (*Object, error) {
	name := normalize(key)

	file, err := store.root.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || isEscape(err) {
			return nil, apperr.NotFound("File")
		}
		return nil, fmt.Errorf("storage_local_open_failed: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("storage_local_stat_failed: %w", err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, apperr.NotFound("File")
	}

	return &Object{
		Name:        path.Base(name),
		Size:        info.Size(),
		ContentType: contentType(name),
		Body:        file,
	}, nil
}

// List walks the folder recursively.
func (store *LocalStore) List(_ context.Context, folder string) ([]Entry, error) {
	name := normalize(folder)

	var entries []Entry
	err := fs.WalkDir(store.root.FS(), name, func(current string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if current == name && !entry.IsDir() {
			return fs.ErrNotExist
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Path: relative(name, current), Size: info.Size()})
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || isEscape(err) {
			return nil, apperr.NotFound("Folder")
		}
		return nil, fmt.Errorf("storage_local_walk_failed: %w", err)
	}
	if len(entries) == 0 {
		return nil, apperr.NotFound("Folder")
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// normalize turns a key into an [os.Root] name.
func normalize(key string) string {
	cleaned := path.Clean("/" + strings.TrimSpace(key))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" {
		return "."
	}
	return cleaned
}

// relative returns current relative to the walked folder.
func relative(folder, current string) string {
	if folder == "." {
		return current
	}
	return strings.TrimPrefix(current, folder+"/")
}

// isEscape reports whether err is the path-escape error returned by [os.Root].
func isEscape(err error) bool {
	return err != nil && strings.Contains(err.Error(), "path escapes from parent")
}
