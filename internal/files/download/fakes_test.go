// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package download_test

import (
	"bytes"
	"context"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/medscope/medscope/internal/files/download"
	"github.com/medscope/medscope/internal/files/storage"
	"github.com/medscope/medscope/internal/platform/apperr"
)

// # In-Memory Repository

type memoryDownloads struct {
	mu   sync.Mutex
	rows map[string]*download.Download
}

func newMemoryDownloads() *memoryDownloads {
	return &memoryDownloads{rows: make(map[string]*download.Download)}
}

func clone(d *download.Download) *download.Download {
	copied := *d
	if d.UsedAt != nil {
		usedAt := *d.UsedAt
		copied.UsedAt = &usedAt
	}
	return &copied
}

func (m *memoryDownloads) Create(_ context.Context, d *download.Download) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[d.ID] = clone(d)
	return nil
}

func (m *memoryDownloads) FindByTokenHash(_ context.Context, tokenHash string) (*download.Download, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.TokenHash == tokenHash {
			return clone(row), nil
		}
	}
	return nil, apperr.NotFound("File download")
}

func (m *memoryDownloads) FindByID(_ context.Context, id string) (*download.Download, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFound("File download")
	}
	return clone(row), nil
}

// Consume reproduces the conditional update: usedat IS NULL AND expiresat > now.
func (m *memoryDownloads) Consume(_ context.Context, id string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.UsedAt != nil || !row.ExpiresAt.After(now) {
		return false, nil
	}
	usedAt := now
	row.UsedAt = &usedAt
	return true, nil
}

func (m *memoryDownloads) List(_ context.Context, limit, offset int) ([]*download.Download, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*download.Download, 0, len(m.rows))
	for _, row := range m.rows {
		all = append(all, clone(row))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, len(all), nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], len(all), nil
}

func (m *memoryDownloads) DeleteAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := int64(len(m.rows))
	m.rows = make(map[string]*download.Download)
	return count, nil
}

func (m *memoryDownloads) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for id, row := range m.rows {
		if row.ExpiresAt.Before(now) {
			delete(m.rows, id)
			count++
		}
	}
	return count, nil
}

func (m *memoryDownloads) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// # In-Memory Blob Store

type memoryStore struct {
	files map[string]string
}

func (s memoryStore) Open(_ context.Context, key string) (*storage.Object, error) {
	content, ok := s.files[key]
	if !ok {
		return nil, apperr.NotFound("File")
	}
	return &storage.Object{
		Name:        path.Base(key),
		Size:        int64(len(content)),
		ContentType: "application/pdf",
		Body:        io.NopCloser(bytes.NewBufferString(content)),
	}, nil
}

func (s memoryStore) List(_ context.Context, folder string) ([]storage.Entry, error) {
	prefix := folder + "/"
	var entries []storage.Entry
	for key, content := range s.files {
		if strings.HasPrefix(key, prefix) {
			entries = append(entries, storage.Entry{Path: strings.TrimPrefix(key, prefix), Size: int64(len(content))})
		}
	}
	if len(entries) == 0 {
		return nil, apperr.NotFound("Folder")
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func newMemoryStore() memoryStore {
	return memoryStore{files: map[string]string{
		"uploads/x.pdf":              "%PDF-1.7 x",
		"patients/42/report.pdf":     "%PDF-1.7 report",
		"patients/42/imaging/ap.pdf": "%PDF-1.7 ap",
	}}
}

// # Clock & Lease

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeLease struct {
	mu       sync.Mutex
	held     bool
	acquired int
}

func (l *fakeLease) Acquire(_ context.Context, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return false, nil
	}
	l.acquired++
	return true, nil
}
