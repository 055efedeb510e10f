// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medscope/medscope/internal/platform/middleware"
	requestutil "github.com/medscope/medscope/internal/platform/request"
	"github.com/medscope/medscope/internal/platform/respond"
	"github.com/medscope/medscope/internal/platform/sec"
	"github.com/medscope/medscope/internal/platform/validate"
	"github.com/medscope/medscope/internal/users/auth"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Own profile
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.getMe)
		r.Patch("/me", handler.updateMe)
	})

	// Administration
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/", handler.listUsers)
		r.Post("/", handler.createUser)
		r.Get("/{userID}", handler.getUser)
		r.Delete("/{userID}", handler.deleteUser)
		r.Post("/{userID}/unlock", handler.unlockUser)
	})

	return router
}

// # Own Profile Endpoints

/*
GET /api/users/me.

Description: Retrieves the profile of the authenticated user.

Response:
  - 200: Profile
  - 401: authenticationRequired
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.GetProfile(request.Context(), identity.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// updateMeRequest defines the expected JSON payload for profile updates.
type updateMeRequest struct {
	Name      *string `json:"name"`
	FirstName *string `json:"firstname"`
}

/*
PATCH /api/users/me.

Description: Applies partial updates to the authenticated user's profile.

Request:
  - body: updateMeRequest (Partial JSON)

Response:
  - 200: Profile: The updated profile
  - 400: Invalid JSON or validation failure
  - 401: authenticationRequired
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Name != nil {
		v.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, 100)
	}
	if input.FirstName != nil {
		v.Required(FieldFirstName, *input.FirstName).MaxLen(FieldFirstName, *input.FirstName, 100)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.UpdateProfile(request.Context(), identity.UserID, UpdateProfileInput{
		Name:      input.Name,
		FirstName: input.FirstName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// # Administration Endpoints

/*
GET /api/users.

Response:
  - 200: []Profile
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	profiles, err := handler.accountService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profiles)
}

// createUserRequest defines the payload for provisioning an account.
type createUserRequest struct {
	Name      string `json:"name"`
	FirstName string `json:"firstname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

/*
POST /api/users.

Request:
  - body: createUserRequest

Response:
  - 201: Profile
  - 400: Validation failure (weak password, unknown role, bad email)
  - 409: Email already registered
*/
func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := (&validate.Validator{}).
		Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 100).
		Required(FieldFirstName, input.FirstName).MaxLen(FieldFirstName, input.FirstName, 100).
		Email(FieldEmail, input.Email).
		Password(FieldPassword, input.Password).
		OneOf(FieldRole, input.Role, string(sec.RoleAdmin), string(sec.RoleCompanyOperator), string(sec.RoleUser)).
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.Create(request.Context(), auth.RegisterInput{
		Name:      input.Name,
		FirstName: input.FirstName,
		Email:     input.Email,
		Password:  input.Password,
		Role:      sec.UserRole(input.Role),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, profile)
}

/*
GET /api/users/{userID}.

Response:
  - 200: Profile
  - 404: Unknown user
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	userID, ok := handler.userID(writer, request)
	if !ok {
		return
	}

	profile, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
DELETE /api/users/{userID}.

Response:
  - 204: Account and its session removed
  - 404: Unknown user
  - 409: Self-deletion
*/
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	userID, ok := handler.userID(writer, request)
	if !ok {
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), requestutil.Identity(request), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
POST /api/users/{userID}/unlock.

Description: Clears the failed login counter so a locked account can log in immediately.

Response:
  - 204: Unlocked
  - 404: Unknown user
*/
func (handler *Handler) unlockUser(writer http.ResponseWriter, request *http.Request) {
	userID, ok := handler.userID(writer, request)
	if !ok {
		return
	}

	if err := handler.accountService.Unlock(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// userID reads and validates the {userID} path parameter.
func (handler *Handler) userID(writer http.ResponseWriter, request *http.Request) (string, bool) {
	userID, err := requestutil.UUIDParam(request, FieldUserID)
	if err != nil {
		respond.Error(writer, request, err)
		return "", false
	}
	return userID, true
}
