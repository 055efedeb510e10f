// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/medscope/medscope/internal/platform/apperr"
	"github.com/medscope/medscope/internal/platform/ctxutil"
	"github.com/medscope/medscope/internal/platform/sec"
	"github.com/medscope/medscope/pkg/uuid"
)

// # Contracts & Types

// Service implements the credential login flow.
//
// # Review Process
//
// This service is critical for security. Any change to the lockout rules or to
// the order of checks in [Service.Login] must be reviewed by the security team.
type Service struct {
	credentialRepository CredentialRepository
	sessions             *SessionManager
	now                  func() time.Time
}

// NewService constructs a new [Service]. A nil clock defaults to [time.Now].
func NewService(credentials CredentialRepository, sessions *SessionManager, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		credentialRepository: credentials,
		sessions:             sessions,
		now:                  clock,
	}
}

// # Authentication Flow

/*
Login authenticates an email/password pair and issues (or rotates) the user's token.

Description: Runs the login state machine:

 1. Look up the credential (unknown email is apperr.NotFound).
 2. Lockout check once the failure counter reaches [MaxFailedAttempts]:
    a corrupt or missing timestamp is Unauthorized(invalidLastFailedTimestamp),
    a failure within [LockoutWindow] is Forbidden(tooManyFailedAttempts),
    an elapsed window resets the counters and continues.
 3. Password check: success resets the counters and issues the token, failure
    records the attempt and is Unauthorized(invalidCredentials).

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *IssuedToken: Token ID and raw bearer value
  - error: apperr.AppError describing the rejected step
*/
func (service *Service) Login(context context.Context, email, password string) (*IssuedToken, error) {
	logger := ctxutil.GetLogger(context)
	now := service.now()

	credential, err := service.credentialRepository.FindByEmail(context, email)
	if err != nil {
		return nil, err
	}

	// Lockout check
	if credential.FailedLoginCount >= MaxFailedAttempts {
		lastFailure, err := credential.LastFailure()
		if err != nil {
			logger.ErrorContext(context, "login_lockout_state_corrupt",
				slog.String("user_id", credential.ID),
				slog.Any("error", err),
			)
			return nil, apperr.Unauthorized("Invalid last failed login timestamp").WithReason(apperr.ReasonInvalidLastFailedTimestamp)
		}

		if now.Sub(lastFailure) < LockoutWindow {
			logger.WarnContext(context, "login_locked_out",
				slog.String("user_id", credential.ID),
				slog.Int("failed_count", credential.FailedLoginCount),
			)
			return nil, apperr.Forbidden("Too many failed login attempts").WithReason(apperr.ReasonTooManyFailedAttempts)
		}

		// Window elapsed: unlock and evaluate this attempt from a clean slate
		if err := service.credentialRepository.ResetFailures(context, credential.ID); err != nil {
			return nil, fmt.Errorf("auth_service_unlock_failed: %w", err)
		}
		credential.FailedLoginCount = 0
		credential.LastFailedLoginAt = nil
	}

	// Password verification
	if !sec.CheckPasswordHash(password, credential.PasswordHash) {
		count, err := service.credentialRepository.RecordFailure(context, credential.ID, now.UTC().Format(FailureTimestampLayout))
		if err != nil {
			return nil, fmt.Errorf("auth_service_record_failure_failed: %w", err)
		}

		logger.WarnContext(context, "login_failed",
			slog.String("user_id", credential.ID),
			slog.Int("failed_count", count),
		)
		return nil, apperr.Unauthorized("Invalid credentials").WithReason(apperr.ReasonInvalidCredentials)
	}

	if credential.FailedLoginCount > 0 || credential.LastFailedLoginAt != nil {
		if err := service.credentialRepository.ResetFailures(context, credential.ID); err != nil {
			return nil, fmt.Errorf("auth_service_reset_failures_failed: %w", err)
		}
	}

	issued, err := service.sessions.IssueOrRotate(context, credential.ID)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(context, "login_succeeded", slog.String("user_id", credential.ID))
	return issued, nil
}

// # Account Provisioning

// RegisterInput holds the data required to create a credential.
type RegisterInput struct {
	Name      string
	FirstName string
	Email     string
	Password  string
	Role      sec.UserRole
}

/*
Register hashes the password and persists a new credential.

Description: Used by the seeding command to bootstrap the first administrator.

Returns:
  - *Credential: Created entity
  - error: apperr.Conflict when the email exists, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Credential, error) {
	if !input.Role.Valid() {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{Field: "role", Message: "Unknown role"})
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	credential := &Credential{
		ID:           uuid.New(),
		Name:         input.Name,
		FirstName:    input.FirstName,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         input.Role,
	}

	if err := service.credentialRepository.Create(context, credential); err != nil {
		return nil, err
	}

	return credential, nil
}
