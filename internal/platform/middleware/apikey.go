// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package middleware

import (
	"context"
	"net/http"

	"github.com/medscope/medscope/internal/platform/apperr"
	"github.com/medscope/medscope/internal/platform/constants"
	"github.com/medscope/medscope/internal/platform/ctxutil"
	"github.com/medscope/medscope/internal/platform/respond"
)

// APIKeyVerifier checks a raw API key against the stored key hashes and returns
// the name of the matching key.
type APIKeyVerifier interface {
	Verify(context context.Context, rawKey string) (string, error)
}

// RequireAPIKey is the service-level gate that runs ahead of every API route.
//
// A missing header fails with 401 missingAPIKey. Any verification error is
// rendered as-is (401 invalidApiKey for a key that matches nothing).
func RequireAPIKey(verifier APIKeyVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			rawKey := request.Header.Get(constants.HeaderAPIKey)
			if rawKey == "" {
				respond.Error(writer, request, apperr.Unauthorized("Missing API key").WithReason(apperr.ReasonMissingAPIKey))
				return
			}

			name, err := verifier.Verify(request.Context(), rawKey)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := ctxutil.WithAPIKeyName(request.Context(), name)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
