// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package download_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medscope/medscope/internal/files/download"
	"github.com/medscope/medscope/internal/platform/ctxutil"
	"github.com/medscope/medscope/internal/platform/sec"
)

func newRouter(service *download.Service) http.Handler {
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if role := request.Header.Get("X-Test-Role"); role != "" {
				identity := &sec.Identity{UserID: "0192f5a4-7c1e-7000-8000-000000000001", Role: sec.UserRole(role)}
				request = request.WithContext(ctxutil.WithIdentity(request.Context(), identity))
			}
			next.ServeHTTP(writer, request)
		})
	})
	router.Mount("/downloads", download.NewHandler(service).Routes())
	return router
}

func send(router http.Handler, method, target, role string, body any) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&payload).Encode(body)
	}
	request := httptest.NewRequest(method, target, &payload)
	if role != "" {
		request.Header.Set("X-Test-Role", role)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func issue(t *testing.T, router http.Handler, target, path string) download.IssuedDownload {
	t.Helper()
	recorder := send(router, http.MethodPost, target, string(sec.RoleUser), map[string]string{"path": path})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var envelope struct {
		Data download.IssuedDownload `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Data
}

/*
TestHandler_FileRedemption verifies the file stream and single use over HTTP.
*/
func TestHandler_FileRedemption(t *testing.T) {
	router := newRouter(newFixture().service)

	anonymous := send(router, http.MethodPost, "/downloads", "", map[string]string{"path": "uploads/x.pdf"})
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	invalid := send(router, http.MethodPost, "/downloads", string(sec.RoleUser), map[string]string{"path": "../x.pdf"})
	assert.Equal(t, http.StatusBadRequest, invalid.Code)

	issued := issue(t, router, "/downloads", "uploads/x.pdf")
	assert.Equal(t, download.KindFile, issued.Kind)

	first := send(router, http.MethodGet, "/downloads/file/"+issued.Token, "", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "%PDF-1.7 x", first.Body.String())
	assert.Equal(t, `attachment; filename=x.pdf`, first.Header().Get("Content-Disposition"))
	assert.Equal(t, "10", first.Header().Get("Content-Length"))

	second := send(router, http.MethodGet, "/downloads/file/"+issued.Token, "", nil)
	assert.Equal(t, http.StatusForbidden, second.Code)
	assert.Contains(t, second.Body.String(), "tokenAlreadyUsed")

	unknown := send(router, http.MethodGet, "/downloads/file/AAAAAAAAAAA=", "", nil)
	assert.Equal(t, http.StatusNotFound, unknown.Code)
}

/*
TestHandler_FolderRedemption verifies that a folder token yields a readable zip.
*/
func TestHandler_FolderRedemption(t *testing.T) {
	router := newRouter(newFixture().service)

	issued := issue(t, router, "/downloads/folder", "patients/42")
	assert.Equal(t, download.KindFolder, issued.Kind)

	recorder := send(router, http.MethodGet, "/downloads/folder/"+issued.Token, "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/zip", recorder.Header().Get("Content-Type"))
	assert.Contains(t, recorder.Header().Get("Content-Disposition"), "42.zip")

	body := recorder.Body.Bytes()
	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	require.Len(t, archive.File, 2)

	contents := make(map[string]string)
	for _, file := range archive.File {
		reader, err := file.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		_ = reader.Close()
		contents[file.Name] = string(data)
	}
	assert.Equal(t, "%PDF-1.7 ap", contents["imaging/ap.pdf"])
	assert.Equal(t, "%PDF-1.7 report", contents["report.pdf"])

	again := send(router, http.MethodGet, "/downloads/folder/"+issued.Token, "", nil)
	assert.Equal(t, http.StatusForbidden, again.Code)
}

/*
TestHandler_Administration verifies that listing and bulk deletion are admin-only.
*/
func TestHandler_Administration(t *testing.T) {
	router := newRouter(newFixture().service)
	issue(t, router, "/downloads", "uploads/x.pdf")

	forbidden := send(router, http.MethodGet, "/downloads", string(sec.RoleUser), nil)
	assert.Equal(t, http.StatusForbidden, forbidden.Code)

	list := send(router, http.MethodGet, "/downloads?page=1&limit=10", string(sec.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), `"total":1`)
	assert.NotContains(t, list.Body.String(), "token")

	deleted := send(router, http.MethodDelete, "/downloads", string(sec.RoleAdmin), nil)
	assert.Equal(t, http.StatusNoContent, deleted.Code)
}
