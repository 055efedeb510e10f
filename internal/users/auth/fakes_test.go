// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package auth_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/medscope/medscope/internal/platform/apperr"
	"github.com/medscope/medscope/internal/platform/sec"
	"github.com/medscope/medscope/internal/users/auth"
)

// # In-Memory Repositories

type memoryCredentials struct {
	mu      sync.Mutex
	byEmail map[string]*auth.Credential
}

func newMemoryCredentials(credentials ...*auth.Credential) *memoryCredentials {
	repo := &memoryCredentials{byEmail: make(map[string]*auth.Credential)}
	for _, credential := range credentials {
		repo.byEmail[credential.Email] = credential
	}
	return repo
}

func (m *memoryCredentials) FindByEmail(_ context.Context, email string) (*auth.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	credential, ok := m.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *credential
	return &clone, nil
}

func (m *memoryCredentials) Create(_ context.Context, credential *auth.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[credential.Email]; ok {
		return apperr.Conflict("User already exists")
	}
	clone := *credential
	m.byEmail[credential.Email] = &clone
	return nil
}

func (m *memoryCredentials) RecordFailure(_ context.Context, id string, at string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, credential := range m.byEmail {
		if credential.ID == id {
			credential.FailedLoginCount++
			stamp := at
			credential.LastFailedLoginAt = &stamp
			return credential.FailedLoginCount, nil
		}
	}
	return 0, apperr.NotFound("User")
}

func (m *memoryCredentials) ResetFailures(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, credential := range m.byEmail {
		if credential.ID == id {
			credential.FailedLoginCount = 0
			credential.LastFailedLoginAt = nil
			return nil
		}
	}
	return apperr.NotFound("User")
}

func (m *memoryCredentials) get(email string) auth.Credential {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.byEmail[email]
}

type memoryTokens struct {
	mu     sync.Mutex
	byID   map[string]*auth.Token
	owners map[string]*sec.Identity
}

func newMemoryTokens() *memoryTokens {
	return &memoryTokens{
		byID:   make(map[string]*auth.Token),
		owners: make(map[string]*sec.Identity),
	}
}

func (m *memoryTokens) Upsert(_ context.Context, token *auth.Token) (*auth.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, existing := range m.byID {
		if existing.UserID == token.UserID {
			existing.ValueHash = token.ValueHash
			existing.UpdatedAt = now
			clone := *existing
			return &clone, nil
		}
	}
	stored := *token
	stored.CreatedAt, stored.UpdatedAt = now, now
	m.byID[stored.ID] = &stored
	clone := stored
	return &clone, nil
}

func (m *memoryTokens) ResolveIdentity(_ context.Context, valueHash string) (*sec.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, token := range m.byID {
		if token.ValueHash == valueHash {
			identity := sec.Identity{UserID: token.UserID, TokenID: token.ID, Role: sec.RoleUser}
			if owner, ok := m.owners[token.UserID]; ok {
				identity.Email, identity.Role = owner.Email, owner.Role
			}
			return &identity, nil
		}
	}
	return nil, apperr.NotFound("Token")
}

func (m *memoryTokens) FindByID(_ context.Context, id string) (*auth.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.byID[id]
	if !ok {
		return nil, apperr.NotFound("Token")
	}
	clone := *token
	return &clone, nil
}

func (m *memoryTokens) List(_ context.Context) ([]*auth.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tokens := make([]*auth.Token, 0, len(m.byID))
	for _, token := range m.byID {
		clone := *token
		tokens = append(tokens, &clone)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].ID < tokens[j].ID })
	return tokens, nil
}

func (m *memoryTokens) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return apperr.NotFound("Token")
	}
	delete(m.byID, id)
	return nil
}

func (m *memoryTokens) DeleteAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := int64(len(m.byID))
	m.byID = make(map[string]*auth.Token)
	return count, nil
}

// # Clock

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
