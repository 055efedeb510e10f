// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package middleware

import (
	"context"
	"net/http"

	"github.com/medscope/medscope/internal/platform/apperr"
	"github.com/medscope/medscope/internal/platform/ctxutil"
	requestutil "github.com/medscope/medscope/internal/platform/request"
	"github.com/medscope/medscope/internal/platform/respond"
	"github.com/medscope/medscope/internal/platform/sec"
)

// SessionResolver resolves a session bearer value to the caller's identity.
//
// Defining it here decouples the middleware from the users/auth service and
// lets tests inject a stub.
type SessionResolver interface {
	Resolve(context context.Context, bearer string) (*sec.Identity, error)
}

// Authenticate resolves the bearer token from the Authorization header.
//
// # Flow
//  1. No bearer token: the request proceeds as anonymous.
//  2. Token present: resolve it through the [SessionResolver].
//  3. Resolution failure aborts the request (401 invalidToken).
//  4. Inject [*sec.Identity] into the request context for downstream use.
func Authenticate(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			bearer := requestutil.BearerToken(request)
			if bearer == "" {
				next.ServeHTTP(writer, request)
				return
			}

			identity, err := resolver.Resolve(request.Context(), bearer)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			rememberUser(request.Context(), identity.UserID)
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetIdentity(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required").WithReason(apperr.ReasonAuthRequired))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// Must be registered in the router AFTER [Authenticate]. It implies [RequireAuth].
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required").WithReason(apperr.ReasonAuthRequired))
				return
			}

			if !identity.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions").WithReason(apperr.ReasonInsufficientRole))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
