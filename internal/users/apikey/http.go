// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package apikey

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medscope/medscope/internal/platform/middleware"
	requestutil "github.com/medscope/medscope/internal/platform/request"
	"github.com/medscope/medscope/internal/platform/respond"
	"github.com/medscope/medscope/internal/platform/sec"
)

// Handler implements the API key administration endpoints.
type Handler struct {
	apiKeyService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{apiKeyService: service}
}

// Routes returns a [chi.Router] for /api/apiKeys. Every route requires an administrator.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))

	router.Post("/", handler.create)
	router.Get("/", handler.list)
	router.Delete("/{apiKeyID}", handler.delete)

	return router
}

// createRequest defines the payload for a new key.
type createRequest struct {
	Name string `json:"name"`
}

/*
POST /api/apiKeys.

Request:
  - body: createRequest

Response:
  - 201: IssuedKey (raw value shown once)
  - 400: Validation failure
  - 401: maximumApiKeysReached
  - 409: apiKeyAlreadyExists
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	issued, err := handler.apiKeyService.Create(request.Context(), input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, issued)
}

/*
GET /api/apiKeys.

Response:
  - 200: []APIKey (id, name, created_at)
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	keys, err := handler.apiKeyService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, keys)
}

/*
DELETE /api/apiKeys/{apiKeyID}.

Response:
  - 204: Deleted
  - 404: Unknown key
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.UUIDParam(request, FieldAPIKeyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.apiKeyService.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
