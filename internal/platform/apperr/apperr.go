// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

/*
Package apperr defines the centralized error handling framework for Medscope.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: carries a closed [Kind], a machine-readable [Reason] and a client-safe message.
  - Mapping: every Kind maps to exactly one HTTP status code.
  - Branching: callers compare Kind and Reason, never the message text.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Kinds

// Kind is the closed set of error classes surfaced by the API.
type Kind string

const (
	KindBadRequest         Kind = "BAD_REQUEST"
	KindUnauthorized       Kind = "UNAUTHORIZED"
	KindForbidden          Kind = "FORBIDDEN"
	KindNotFound           Kind = "NOT_FOUND"
	KindGone               Kind = "GONE"
	KindConflict           Kind = "CONFLICT"
	KindValidation         Kind = "VALIDATION_ERROR"
	KindRateLimited        Kind = "RATE_LIMITED"
	KindUnprocessable      Kind = "UNPROCESSABLE"
	KindInternal           Kind = "INTERNAL_ERROR"
	KindServiceUnavailable Kind = "SERVICE_UNAVAILABLE"
)

// Status returns the HTTP status code associated with the kind.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest, KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindGone:
		return http.StatusGone
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// # Reasons

// Reason is a machine-readable refinement of a [Kind]. Clients use it to pick
// their messaging (e.g. "link expired" vs "link already used").
type Reason string

const (
	// API key gate
	ReasonMissingAPIKey         Reason = "missingAPIKey"
	ReasonInvalidAPIKey         Reason = "invalidApiKey"
	ReasonMaximumAPIKeysReached Reason = "maximumApiKeysReached"
	ReasonAPIKeyAlreadyExists   Reason = "apiKeyAlreadyExists"

	// Basic-Auth extraction
	ReasonMissingAuthorizationHeader Reason = "missingAuthorizationHeader"
	ReasonInvalidAuthorizationHeader Reason = "invalidAuthorizationHeader"
	ReasonWrongAuthorizationHeader   Reason = "wrongAuthorizationHeader"
	ReasonWrongAuthorizationData     Reason = "wrongAuthorizationHeaderData"
	ReasonInvalidAuthorizationFormat Reason = "invalidAuthorizationFormat"

	// Login flow
	ReasonInvalidCredentials         Reason = "invalidCredentials"
	ReasonInvalidLastFailedTimestamp Reason = "invalidLastFailedTimestamp"
	ReasonTooManyFailedAttempts      Reason = "tooManyFailedAttempts"

	// Session tokens
	ReasonInvalidToken     Reason = "invalidToken"
	ReasonAuthRequired     Reason = "authenticationRequired"
	ReasonInsufficientRole Reason = "role"

	// Download tokens
	ReasonTokenExpired     Reason = "tokenExpired"
	ReasonTokenAlreadyUsed Reason = "tokenAlreadyUsed"
	ReasonInvalidPath      Reason = "invalidPath"
)

// # Error Type

// AppError is the canonical error type for the Medscope API.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is the closed error class.
	Code Kind `json:"code"`
	// Reason refines Code for client-side branching. Optional.
	Reason Reason `json:"reason,omitempty"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// Is matches two AppErrors when their Kind and Reason agree, so sentinel
// values declared by domain packages work with [errors.Is].
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code && e.Reason == other.Reason
}

// WithReason returns a copy of the error carrying the given reason.
func (e *AppError) WithReason(reason Reason) *AppError {
	clone := *e
	clone.Reason = reason
	return &clone
}

// New builds an [AppError] of the given kind.
func New(kind Kind, reason Reason, msg string) *AppError {
	return &AppError{
		Code:       kind,
		Reason:     reason,
		Message:    msg,
		HTTPStatus: kind.Status(),
	}
}

// # Client Errors (4xx)

// BadRequest creates a 400 [AppError] for malformed input.
func BadRequest(reason Reason, msg string) *AppError {
	return New(KindBadRequest, reason, msg)
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Token") // Returns "Token not found"
func NotFound(resource string) *AppError {
	return New(KindNotFound, "", resource+" not found")
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return New(KindUnauthorized, "", msg)
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return New(KindForbidden, "", msg)
}

// Gone creates a 410 [AppError] for resources that existed but are no longer usable.
func Gone(msg string) *AppError {
	return New(KindGone, "", msg)
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return New(KindConflict, "", msg)
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	err := New(KindValidation, "", msg)
	err.Details = details
	return err
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return New(KindRateLimited, "", fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// Unprocessable creates a 422 [AppError] for semantically invalid input.
func Unprocessable(msg string) *AppError {
	return New(KindUnprocessable, "", msg)
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	err := New(KindInternal, "", "An unexpected error occurred")
	err.Cause = cause
	return err
}

// ServiceUnavailable creates a 503 [AppError].
func ServiceUnavailable(msg string) *AppError {
	return New(KindServiceUnavailable, "", msg)
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// KindOf returns the Kind of err, or [KindInternal] for non-AppErrors.
func KindOf(err error) Kind {
	if ae := As(err); ae != nil {
		return ae.Code
	}
	return KindInternal
}

// ReasonOf returns the Reason of err, or "" for non-AppErrors.
func ReasonOf(err error) Reason {
	if ae := As(err); ae != nil {
		return ae.Reason
	}
	return ""
}
