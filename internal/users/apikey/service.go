// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package apikey

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/medscope/medscope/internal/platform/apperr"
	"github.com/medscope/medscope/internal/platform/ctxutil"
	"github.com/medscope/medscope/internal/platform/sec"
	"github.com/medscope/medscope/internal/platform/validate"
	"github.com/medscope/medscope/pkg/uuid"
)

// Service verifies and administers API keys.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

/*
Verify checks a raw key against every stored hash.

Parameters:
  - context: context.Context
  - rawKey: string (the "api-key" header value)

Returns:
  - string: Name of the matching key
  - error: apperr.Unauthorized(invalidApiKey) when nothing matches
*/
func (service *Service) Verify(context context.Context, rawKey string) (string, error) {
	keys, err := service.repository.List(context)
	if err != nil {
		return "", fmt.Errorf("apikey_service_verify_failed: %w", err)
	}

	for _, key := range keys {
		if sec.CheckPasswordHash(rawKey, key.ValueHash) {
			return key.Name, nil
		}
	}

	return "", apperr.Unauthorized("Invalid API key").WithReason(apperr.ReasonInvalidAPIKey)
}

/*
Create generates a new key and stores its hash.

Parameters:
  - context: context.Context
  - name: string (unique label)

Returns:
  - *IssuedKey: The raw key, returned only here
  - error: Validation, maximumApiKeysReached, apiKeyAlreadyExists or storage failures
*/
func (service *Service) Create(context context.Context, name string) (*IssuedKey, error) {
	if err := (&validate.Validator{}).Required(FieldName, name).MaxLen(FieldName, name, 64).Err(); err != nil {
		return nil, err
	}

	value, err := sec.GenerateAPIKey(KeyLength)
	if err != nil {
		return nil, fmt.Errorf("apikey_service_generate_failed: %w", err)
	}

	hash, err := sec.HashPassword(value)
	if err != nil {
		return nil, fmt.Errorf("apikey_service_hash_failed: %w", err)
	}

	key := &APIKey{ID: uuid.New(), Name: name, ValueHash: hash}
	if err := service.repository.CreateBounded(context, key, MaxKeys); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "api_key_created",
		slog.String("api_key_id", key.ID),
		slog.String("name", name),
	)

	return &IssuedKey{ID: key.ID, Name: key.Name, Value: value}, nil
}

// List returns every stored key (hashes are never serialized).
func (service *Service) List(context context.Context) ([]*APIKey, error) {
	return service.repository.List(context)
}

// Delete removes one key.
func (service *Service) Delete(context context.Context, id string) error {
	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	ctxutil.GetLogger(context).WarnContext(context, "api_key_deleted", slog.String("api_key_id", id))
	return nil
}
