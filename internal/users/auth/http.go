// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medscope/medscope/internal/platform/middleware"
	requestutil "github.com/medscope/medscope/internal/platform/request"
	"github.com/medscope/medscope/internal/platform/respond"
	"github.com/medscope/medscope/internal/platform/sec"
)

// # Definitions & Constructors

// Handler implements the login, logout and token administration endpoints.
type Handler struct {
	authService *Service
	sessions    *SessionManager
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, sessions *SessionManager) *Handler {
	return &Handler{authService: service, sessions: sessions}
}

// Routes returns a [chi.Router] configured with session routes.
//
// The router expects to sit behind the API key gate and [middleware.Authenticate].
//
// # Endpoints
//   - POST   /login             : Basic-Auth login, returns the bearer token.
//   - DELETE /logout/{tokenID}  : Revokes a token.
//   - GET    /tokens            : Lists tokens (admin).
//   - GET    /tokens/{tokenID}  : Reads a token (admin).
//   - DELETE /tokens/{tokenID}  : Revokes a token (admin).
//   - DELETE /tokens            : Revokes every token (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Delete("/logout/{tokenID}", handler.logout)

	router.Route("/tokens", func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/", handler.listTokens)
		r.Delete("/", handler.revokeAll)
		r.Get("/{tokenID}", handler.getToken)
		r.Delete("/{tokenID}", handler.revokeToken)
	})

	return router
}

/*
Login authenticates a user from the Basic-Auth header.

POST /api/login

Request:
  - Header: Authorization: Basic base64(email:password)

Response:
  - 200: IssuedToken: id, user_id and the bearer value
  - 400: Unparsable Basic-Auth header
  - 401: missingAuthorizationHeader | invalidCredentials | invalidLastFailedTimestamp | invalidToken
  - 403: tooManyFailedAttempts
  - 404: Unknown user
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	credentials, err := requestutil.BasicAuth(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	issued, err := handler.authService.Login(request.Context(), credentials.Identity, credentials.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, issued)
}

/*
Logout revokes the given session token.

DELETE /api/logout/{tokenID}

Response:
  - 204: Token revoked
  - 404: Token already revoked or unknown
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	tokenID, err := requestutil.UUIDParam(request, FieldTokenID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.sessions.Revoke(request.Context(), tokenID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
ListTokens returns every live session token.

GET /api/tokens

Response:
  - 200: []Token (without bearer values)
*/
func (handler *Handler) listTokens(writer http.ResponseWriter, request *http.Request) {
	tokens, err := handler.sessions.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tokens)
}

/*
GetToken returns one session token.

GET /api/tokens/{tokenID}

Response:
  - 200: Token
  - 404: Unknown token
*/
func (handler *Handler) getToken(writer http.ResponseWriter, request *http.Request) {
	tokenID, err := requestutil.UUIDParam(request, FieldTokenID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.sessions.Get(request.Context(), tokenID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, token)
}

/*
RevokeToken deletes one session token.

DELETE /api/tokens/{tokenID}
*/
func (handler *Handler) revokeToken(writer http.ResponseWriter, request *http.Request) {
	handler.logout(writer, request)
}

/*
RevokeAll deletes every session token.

DELETE /api/tokens

Response:
  - 204: All tokens revoked
*/
func (handler *Handler) revokeAll(writer http.ResponseWriter, request *http.Request) {
	if _, err := handler.sessions.RevokeAll(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
