// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

/*
Package requestutil reads the inputs of Medscope API requests: small JSON bodies,
chi URL parameters, the caller resolved by the session guard, and the Basic-Auth
and bearer credentials in the Authorization header.

Every failure is returned as an [apperr.AppError] so handlers can pass it
straight to respond.Error.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medscope/medscope/internal/platform/apperr"
	"github.com/medscope/medscope/internal/platform/ctxutil"
	"github.com/medscope/medscope/internal/platform/sec"
	"github.com/medscope/medscope/internal/platform/validate"
)

// MaxBodyBytes bounds JSON request bodies. The largest body the API accepts
// is an account creation payload.
const MaxBodyBytes = 64 << 10

// errEmptyBody is returned for a JSON endpoint called without a body.
var errEmptyBody = apperr.ValidationError("Request body is required")

/*
DecodeJSON decodes at most [MaxBodyBytes] of the request body into target.

Returns:
  - error: errEmptyBody for a missing body, validate.ErrInvalidJSON for malformed
    or oversized JSON, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if request.Body == nil || request.Body == http.NoBody {
		return errEmptyBody
	}

	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, MaxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param retrieves a named chi URL parameter.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
UUIDParam retrieves a URL parameter that must be a record ID.

Returns:
  - string: The parameter value
  - error: A validation error naming the parameter when it is not a UUID
*/
func UUIDParam(request *http.Request, name string) (string, error) {
	value := chi.URLParam(request, name)
	if err := (&validate.Validator{}).UUID(name, value).Err(); err != nil {
		return "", err
	}
	return value, nil
}

// Identity returns the caller resolved by the session guard, or nil for anonymous requests.
func Identity(request *http.Request) *sec.Identity {
	return ctxutil.GetIdentity(request.Context())
}

// RequiredIdentity returns the caller, or Unauthorized(authenticationRequired) when anonymous.
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {
	identity := ctxutil.GetIdentity(request.Context())
	if identity == nil {
		return nil, apperr.Unauthorized("Authentication required").WithReason(apperr.ReasonAuthRequired)
	}
	return identity, nil
}
