// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/medscope/medscope/internal/platform/apperr"
	"github.com/medscope/medscope/internal/platform/ctxutil"
	"github.com/medscope/medscope/internal/platform/sec"
	"github.com/medscope/medscope/pkg/uuid"
)

// SessionManager issues, resolves and revokes session bearer tokens.
//
// A user owns at most one token. Logging in again rotates its value in place,
// which immediately invalidates the previous bearer value.
type SessionManager struct {
	tokenRepository TokenRepository
}

// NewSessionManager constructs a [SessionManager].
func NewSessionManager(tokens TokenRepository) *SessionManager {
	return &SessionManager{tokenRepository: tokens}
}

/*
IssueOrRotate creates the user's token, or replaces the value of the existing one.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *IssuedToken: Token ID and raw bearer value (returned only here)
  - error: Generation or storage failures
*/
func (manager *SessionManager) IssueOrRotate(context context.Context, userID string) (*IssuedToken, error) {
	value, err := sec.GenerateSecureToken(SessionTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_session_generate_failed: %w", err)
	}

	stored, err := manager.tokenRepository.Upsert(context, &Token{
		ID:        uuid.New(),
		UserID:    userID,
		ValueHash: sec.HashToken(value),
	})
	if err != nil {
		return nil, fmt.Errorf("auth_session_issue_failed: %w", err)
	}

	return &IssuedToken{ID: stored.ID, UserID: stored.UserID, Value: value}, nil
}

/*
Resolve maps a bearer value to the identity of its owner.

Returns:
  - *sec.Identity: The caller
  - error: apperr.Unauthorized(invalidToken) for unknown values
*/
func (manager *SessionManager) Resolve(context context.Context, bearer string) (*sec.Identity, error) {
	identity, err := manager.tokenRepository.ResolveIdentity(context, sec.HashToken(bearer))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Unauthorized("Invalid or revoked token").WithReason(apperr.ReasonInvalidToken)
		}
		return nil, err
	}
	return identity, nil
}

/*
Revoke deletes one token. Revoking an already-deleted token is apperr.NotFound.
*/
func (manager *SessionManager) Revoke(context context.Context, tokenID string) error {
	if err := manager.tokenRepository.Delete(context, tokenID); err != nil {
		return err
	}
	ctxutil.GetLogger(context).InfoContext(context, "session_revoked", slog.String("token_id", tokenID))
	return nil
}

/*
RevokeAll deletes every session token and returns how many were removed.
*/
func (manager *SessionManager) RevokeAll(context context.Context) (int64, error) {
	count, err := manager.tokenRepository.DeleteAll(context)
	if err != nil {
		return 0, err
	}
	ctxutil.GetLogger(context).WarnContext(context, "sessions_revoked_all", slog.Int64("count", count))
	return count, nil
}

// List returns every live session token (never the bearer values).
func (manager *SessionManager) List(context context.Context) ([]*Token, error) {
	return manager.tokenRepository.List(context)
}

// Get returns one session token by ID.
func (manager *SessionManager) Get(context context.Context, tokenID string) (*Token, error) {
	return manager.tokenRepository.FindByID(context, tokenID)
}
