// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

// Package pagination parses page/limit query parameters and builds the meta
// block of paginated list responses (currently the admin download token list).
package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a validated page request. Page is 1-indexed.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta describes the page returned for total matching rows.
func (p Params) Meta(total int) Meta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}

	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    p.Page < totalPages,
	}
}

// Meta is the "meta" object of a paginated response envelope.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// FromRequest reads "page" and "limit" from the query string. Missing or
// invalid values fall back to the defaults; limit is capped at [MaxLimit].
func FromRequest(r *http.Request) Params {
	query := r.URL.Query()

	page := intParam(query, "page", DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	limit := intParam(query, "limit", DefaultLimit)
	switch {
	case limit < 1:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit}
}

func intParam(query url.Values, key string, fallback int) int {
	n, err := strconv.Atoi(query.Get(key))
	if err != nil {
		return fallback
	}
	return n
}
