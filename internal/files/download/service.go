// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package download

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/medscope/medscope/internal/files/storage"
	"github.com/medscope/medscope/internal/platform/apperr"
	"github.com/medscope/medscope/internal/platform/ctxutil"
	"github.com/medscope/medscope/internal/platform/sec"
	"github.com/medscope/medscope/internal/platform/validate"
	"github.com/medscope/medscope/pkg/pagination"
	"github.com/medscope/medscope/pkg/uuid"
)

// # Contracts & Types

// Service issues, validates and redeems download tokens.
type Service struct {
	repository Repository
	store      storage.Store
	now        func() time.Time
}

// NewService constructs a new [Service]. A nil clock defaults to [time.Now].
func NewService(repository Repository, store storage.Store, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{repository: repository, store: store, now: clock}
}

// # Issuance

/*
Issue creates a token for a file or folder path.

Parameters:
  - context: context.Context
  - filePath: string (relative blob store key)
  - kind: Kind

Returns:
  - *IssuedDownload: The raw token, returned only here
  - error: Validation or storage failures
*/
func (service *Service) Issue(context context.Context, filePath string, kind Kind) (*IssuedDownload, error) {
	err := (&validate.Validator{}).
		Required(FieldPath, filePath).
		RelativePath(FieldPath, filePath).
		Custom("kind", !kind.Valid(), "Must be file or folder").
		Err()
	if err != nil {
		return nil, err
	}

	token, err := sec.GenerateDownloadToken(TokenLength)
	if err != nil {
		return nil, fmt.Errorf("download_service_generate_failed: %w", err)
	}

	now := service.now()
	download := &Download{
		ID:        uuid.New(),
		FilePath:  filePath,
		TokenHash: sec.HashToken(token),
		Kind:      kind,
		ExpiresAt: now.Add(TokenTTL),
		CreatedAt: now,
	}

	if err := service.repository.Create(context, download); err != nil {
		return nil, fmt.Errorf("download_service_issue_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "download_issued",
		slog.String("download_id", download.ID),
		slog.String("kind", string(kind)),
	)

	return &IssuedDownload{
		ID:        download.ID,
		Token:     token,
		Path:      download.FilePath,
		Kind:      download.Kind,
		ExpiresAt: download.ExpiresAt,
	}, nil
}

// # Validation & Consumption

/*
Validate looks a token up and checks that it is still redeemable. It does not
mark the token used.

Returns:
  - *Download: The stored token
  - error: NotFound, Gone(tokenExpired) or Forbidden(tokenAlreadyUsed), in that order
*/
func (service *Service) Validate(context context.Context, token string) (*Download, error) {
	if token == "" {
		return nil, apperr.NotFound("File download")
	}

	download, err := service.repository.FindByTokenHash(context, sec.HashToken(token))
	if err != nil {
		return nil, err
	}

	if err := classify(download, service.now()); err != nil {
		return nil, err
	}

	return download, nil
}

/*
Consume marks a validated token used.

Description: Runs the conditional update. When another caller won the race, or the
token expired meanwhile, the row is read back to report why.

Returns:
  - error: nil for the single winner, otherwise Forbidden(tokenAlreadyUsed),
    Gone(tokenExpired) or NotFound
*/
func (service *Service) Consume(context context.Context, download *Download) error {
	now := service.now()

	consumed, err := service.repository.Consume(context, download.ID, now)
	if err != nil {
		return fmt.Errorf("download_service_consume_failed: %w", err)
	}
	if consumed {
		download.UsedAt = &now
		return nil
	}

	current, err := service.repository.FindByID(context, download.ID)
	if err != nil {
		return err
	}
	if err := classify(current, now); err != nil {
		return err
	}

	// Unreachable unless the row changed twice between the update and the read.
	return apperr.Forbidden("Download token already used").WithReason(apperr.ReasonTokenAlreadyUsed)
}

// classify reports why a token cannot be redeemed at now, or nil when it can.
func classify(download *Download, now time.Time) error {
	if !now.Before(download.ExpiresAt) {
		return apperr.Gone("Download token expired").WithReason(apperr.ReasonTokenExpired)
	}
	if download.UsedAt != nil {
		return apperr.Forbidden("Download token already used").WithReason(apperr.ReasonTokenAlreadyUsed)
	}
	return nil
}

// # Redemption

/*
OpenFile redeems a file token: validate, open the blob, then consume.

The caller owns the returned object and must close its body.

Returns:
  - *Download: The consumed token
  - *storage.Object: The open blob
  - error: Validation, consumption or storage failures
*/
func (service *Service) OpenFile(context context.Context, token string) (*Download, *storage.Object, error) {
	download, err := service.Validate(context, token)
	if err != nil {
		return nil, nil, err
	}
	if download.Kind != KindFile {
		return nil, nil, apperr.NotFound("File download")
	}

	object, err := service.store.Open(context, download.FilePath)
	if err != nil {
		return nil, nil, err
	}

	if err := service.Consume(context, download); err != nil {
		_ = object.Body.Close()
		return nil, nil, err
	}

	service.logRedeemed(context, download)
	return download, object, nil
}

/*
OpenFolder redeems a folder token: validate, list the folder, then consume.

Returns:
  - *Download: The consumed token
  - []storage.Entry: Files to archive, relative to the folder
  - error: Validation, consumption or storage failures
*/
func (service *Service) OpenFolder(context context.Context, token string) (*Download, []storage.Entry, error) {
	download, err := service.Validate(context, token)
	if err != nil {
		return nil, nil, err
	}
	if download.Kind != KindFolder {
		return nil, nil, apperr.NotFound("File download")
	}

	entries, err := service.store.List(context, download.FilePath)
	if err != nil {
		return nil, nil, err
	}

	if err := service.Consume(context, download); err != nil {
		return nil, nil, err
	}

	service.logRedeemed(context, download)
	return download, entries, nil
}

// OpenEntry opens one file of a redeemed folder.
func (service *Service) OpenEntry(context context.Context, download *Download, entry storage.Entry) (*storage.Object, error) {
	return service.store.Open(context, path.Join(download.FilePath, entry.Path))
}

func (service *Service) logRedeemed(context context.Context, download *Download) {
	ctxutil.GetLogger(context).InfoContext(context, "download_redeemed",
		slog.String("download_id", download.ID),
		slog.String("kind", string(download.Kind)),
		slog.String("api_key", ctxutil.GetAPIKeyName(context)),
	)
}

// # Administration

// List returns one page of tokens (secrets are never serialized).
func (service *Service) List(context context.Context, params pagination.Params) ([]*Download, pagination.Meta, error) {
	downloads, total, err := service.repository.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("download_service_list_failed: %w", err)
	}
	if downloads == nil {
		downloads = []*Download{}
	}
	return downloads, params.Meta(total), nil
}

// DeleteAll removes every token.
func (service *Service) DeleteAll(context context.Context) (int64, error) {
	count, err := service.repository.DeleteAll(context)
	if err != nil {
		return 0, fmt.Errorf("download_service_delete_all_failed: %w", err)
	}
	ctxutil.GetLogger(context).WarnContext(context, "downloads_deleted_all", slog.Int64("count", count))
	return count, nil
}

/*
Reap deletes every token that expired before now, used or not. Running it twice
in a row deletes nothing the second time.
*/
func (service *Service) Reap(context context.Context) (int64, error) {
	count, err := service.repository.DeleteExpired(context, service.now())
	if err != nil {
		return 0, fmt.Errorf("download_service_reap_failed: %w", err)
	}
	ctxutil.GetLogger(context).InfoContext(context, "download_reaped", slog.Int64("count", count))
	return count, nil
}
