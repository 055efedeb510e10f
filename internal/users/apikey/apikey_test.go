// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package apikey_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medscope/medscope/internal/platform/apperr"
	"github.com/medscope/medscope/internal/platform/ctxutil"
	"github.com/medscope/medscope/internal/platform/middleware"
	"github.com/medscope/medscope/internal/platform/respond"
	"github.com/medscope/medscope/internal/platform/sec"
	"github.com/medscope/medscope/internal/users/apikey"
)

// # Fakes

type memoryKeys struct {
	mu   sync.Mutex
	keys []*apikey.APIKey
}

func (m *memoryKeys) List(_ context.Context) ([]*apikey.APIKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*apikey.APIKey, len(m.keys))
	for i, key := range m.keys {
		clone := *key
		out[i] = &clone
	}
	return out, nil
}

func (m *memoryKeys) CreateBounded(_ context.Context, key *apikey.APIKey, max int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.keys) >= max {
		return apperr.Unauthorized("Maximum number of API keys reached").WithReason(apperr.ReasonMaximumAPIKeysReached)
	}
	for _, existing := range m.keys {
		if existing.Name == key.Name {
			return apperr.Conflict("An API key with this name already exists").WithReason(apperr.ReasonAPIKeyAlreadyExists)
		}
	}
	key.CreatedAt = time.Now()
	clone := *key
	m.keys = append(m.keys, &clone)
	return nil
}

func (m *memoryKeys) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, key := range m.keys {
		if key.ID == id {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("API key")
}

// # Service

/*
TestService_CreateAndVerify verifies that only the issued raw value passes the gate.
*/
func TestService_CreateAndVerify(t *testing.T) {
	ctx := context.Background()
	service := apikey.NewService(&memoryKeys{})

	issued, err := service.Create(ctx, "ios-app")
	require.NoError(t, err)
	assert.Len(t, issued.Value, apikey.KeyLength)
	assert.Regexp(t, `^[A-Za-z0-9]+$`, issued.Value)

	name, err := service.Verify(ctx, issued.Value)
	require.NoError(t, err)
	assert.Equal(t, "ios-app", name)

	_, err = service.Verify(ctx, "not-the-key")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.Equal(t, apperr.ReasonInvalidAPIKey, apperr.ReasonOf(err))

	keys, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.NotEqual(t, issued.Value, keys[0].ValueHash)
}

/*
TestService_CreateLimits covers the key bound and the unique name rule.
*/
func TestService_CreateLimits(t *testing.T) {
	ctx := context.Background()
	service := apikey.NewService(&memoryKeys{})

	for _, name := range []string{"ios-app", "web-app", "partner"} {
		_, err := service.Create(ctx, name)
		require.NoError(t, err)
	}

	_, err := service.Create(ctx, "one-too-many")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.Equal(t, apperr.ReasonMaximumAPIKeysReached, apperr.ReasonOf(err))

	keys, err := service.List(ctx)
	require.NoError(t, err)
	require.NoError(t, service.Delete(ctx, keys[2].ID))

	_, err = service.Create(ctx, "ios-app")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, apperr.ReasonAPIKeyAlreadyExists, apperr.ReasonOf(err))

	_, err = service.Create(ctx, "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = service.Delete(ctx, keys[2].ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

// # HTTP

/*
TestHandler_GateAndAdministration runs the administration routes behind the real gate.
*/
func TestHandler_GateAndAdministration(t *testing.T) {
	ctx := context.Background()
	service := apikey.NewService(&memoryKeys{})
	bootstrap, err := service.Create(ctx, "bootstrap")
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Use(middleware.RequireAPIKey(service))
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.Header.Get("X-Test-Role") == "admin" {
				identity := &sec.Identity{UserID: "0192f5a4-7c1e-7000-8000-0000000000ad", Role: sec.RoleAdmin}
				request = request.WithContext(ctxutil.WithIdentity(request.Context(), identity))
			}
			next.ServeHTTP(writer, request)
		})
	})
	router.Mount("/apiKeys", apikey.NewHandler(service).Routes())

	send := func(method, target, key string, admin bool, body any) *httptest.ResponseRecorder {
		var payload bytes.Buffer
		if body != nil {
			_ = json.NewEncoder(&payload).Encode(body)
		}
		request := httptest.NewRequest(method, target, &payload)
		if key != "" {
			request.Header.Set("api-key", key)
		}
		if admin {
			request.Header.Set("X-Test-Role", "admin")
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	reasonOf := func(recorder *httptest.ResponseRecorder) apperr.Reason {
		var envelope respond.ErrorEnvelope
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		return envelope.Reason
	}

	missing := send(http.MethodGet, "/apiKeys", "", true, nil)
	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, apperr.ReasonMissingAPIKey, reasonOf(missing))

	wrong := send(http.MethodGet, "/apiKeys", "wrong", true, nil)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, apperr.ReasonInvalidAPIKey, reasonOf(wrong))

	notAdmin := send(http.MethodGet, "/apiKeys", bootstrap.Value, false, nil)
	assert.Equal(t, http.StatusUnauthorized, notAdmin.Code)

	created := send(http.MethodPost, "/apiKeys", bootstrap.Value, true, map[string]string{"name": "web-app"})
	require.Equal(t, http.StatusCreated, created.Code)
	var envelope struct {
		Data apikey.IssuedKey `json:"data"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Value, apikey.KeyLength)

	list := send(http.MethodGet, "/apiKeys", envelope.Data.Value, true, nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.NotContains(t, list.Body.String(), "$2a$")

	deleted := send(http.MethodDelete, "/apiKeys/"+envelope.Data.ID, bootstrap.Value, true, nil)
	assert.Equal(t, http.StatusNoContent, deleted.Code)

	revoked := send(http.MethodGet, "/apiKeys", envelope.Data.Value, true, nil)
	assert.Equal(t, http.StatusUnauthorized, revoked.Code)
}
