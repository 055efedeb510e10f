// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package requestutil

import (
	"encoding/base64"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/medscope/medscope/internal/platform/apperr"
	"github.com/medscope/medscope/internal/platform/constants"
)

const basicScheme = "Basic "

// BasicCredentials is the (identity, password) pair carried by a Basic-Auth header.
type BasicCredentials struct {
	Identity string
	Password string
}

/*
BasicAuth extracts credentials from the Authorization header.

Only the first ':' separates identity from password, so passwords may contain
colons. An absent header is [apperr.KindUnauthorized]; a header that is present
but cannot be parsed is [apperr.KindBadRequest]. Each failure has its own reason:

  - missingAuthorizationHeader: header absent or empty (401)
  - invalidAuthorizationHeader: scheme is not "Basic"
  - wrongAuthorizationHeader: payload is not valid base64
  - wrongAuthorizationHeaderData: decoded payload is not UTF-8
  - invalidAuthorizationFormat: no ':' separator or empty identity
*/
func BasicAuth(request *http.Request) (BasicCredentials, error) {
	header := request.Header.Get(constants.HeaderAuthorization)
	if header == "" {
		return BasicCredentials{}, apperr.Unauthorized("Missing Authorization header").WithReason(apperr.ReasonMissingAuthorizationHeader)
	}

	if len(header) < len(basicScheme) || !strings.EqualFold(header[:len(basicScheme)], basicScheme) {
		return BasicCredentials{}, apperr.BadRequest(apperr.ReasonInvalidAuthorizationHeader, "Authorization header must use the Basic scheme")
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(basicScheme):]))
	if err != nil {
		return BasicCredentials{}, apperr.BadRequest(apperr.ReasonWrongAuthorizationHeader, "Authorization header is not valid base64")
	}

	if !utf8.Valid(decoded) {
		return BasicCredentials{}, apperr.BadRequest(apperr.ReasonWrongAuthorizationData, "Authorization header payload is not valid UTF-8")
	}

	identity, password, found := strings.Cut(string(decoded), ":")
	if !found || identity == "" {
		return BasicCredentials{}, apperr.BadRequest(apperr.ReasonInvalidAuthorizationFormat, "Authorization header must be identity:password")
	}

	return BasicCredentials{Identity: identity, Password: password}, nil
}

/*
BearerToken returns the token of an "Authorization: Bearer <token>" header,
or "" when the header is absent or uses another scheme.
*/
func BearerToken(request *http.Request) string {
	header := request.Header.Get(constants.HeaderAuthorization)
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
