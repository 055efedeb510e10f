// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/medscope/medscope/internal/platform/apperr"
	"github.com/medscope/medscope/internal/platform/ctxutil"
	"github.com/medscope/medscope/internal/platform/sec"
	"github.com/medscope/medscope/internal/users/auth"
	"github.com/medscope/medscope/pkg/pointer"
)

// Registrar provisions credentials. [auth.Service] satisfies it.
type Registrar interface {
	Register(context context.Context, input auth.RegisterInput) (*auth.Credential, error)
}

// # Service Layer

// Service orchestrates business logic for user accounts.
type Service struct {
	accountRepository AccountRepository
	registrar         Registrar
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo AccountRepository, registrar Registrar) *Service {
	return &Service{
		accountRepository: accountRepo,
		registrar:         registrar,
	}
}

// # Profile Management

/*
GetProfile retrieves the profile of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Profile: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*Profile, error) {
	profile, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return profile, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
type UpdateProfileInput struct {
	Name      *string
	FirstName *string
}

/*
UpdateProfile applies a partial set of changes to a user's profile.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *Profile: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*Profile, error) {
	profile, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	profile.Name = pointer.Fallback(input.Name, profile.Name)
	profile.FirstName = pointer.Fallback(input.FirstName, profile.FirstName)

	if err := service.accountRepository.Update(context, profile); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_profile_updated", slog.String("user_id", userID))

	return profile, nil
}

// # Administration

// List returns every account.
func (service *Service) List(context context.Context) ([]*Profile, error) {
	profiles, err := service.accountRepository.List(context)
	if err != nil {
		return nil, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return profiles, nil
}

/*
Create provisions a new account with a hashed password.

Returns:
  - *Profile: The created account
  - error: apperr.Conflict for a taken email, validation or storage failures
*/
func (service *Service) Create(context context.Context, input auth.RegisterInput) (*Profile, error) {
	credential, err := service.registrar.Register(context, input)
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_account_created",
		slog.String("user_id", credential.ID),
		slog.String("role", string(credential.Role)),
	)

	return &Profile{
		ID:        credential.ID,
		Name:      credential.Name,
		FirstName: credential.FirstName,
		Email:     credential.Email,
		Role:      credential.Role,
		CreatedAt: credential.CreatedAt,
		UpdatedAt: credential.UpdatedAt,
	}, nil
}

/*
Unlock lifts a brute-force lockout before its window has elapsed.
*/
func (service *Service) Unlock(context context.Context, userID string) error {
	if err := service.accountRepository.Unlock(context, userID); err != nil {
		return err
	}

	ctxutil.GetLogger(context).WarnContext(context, "user_account_unlocked", slog.String("user_id", userID))

	return nil
}

/*
DeleteAccount removes an account and, through the foreign key, its session token.

An administrator cannot delete their own account.

Parameters:
  - context: context.Context
  - actor: *sec.Identity (the caller)
  - userID: string

Returns:
  - error: apperr.Conflict for self-deletion, apperr.NotFound or storage failures
*/
func (service *Service) DeleteAccount(context context.Context, actor *sec.Identity, userID string) error {
	if actor != nil && actor.UserID == userID {
		return apperr.Conflict("Cannot delete your own account")
	}

	if err := service.accountRepository.Delete(context, userID); err != nil {
		return err
	}

	ctxutil.GetLogger(context).WarnContext(context, "user_account_deleted", slog.String("user_id", userID))

	return nil
}
