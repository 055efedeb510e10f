// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

/*
Package pointer provides generic helpers for optional values.

Partial updates carry optional fields as pointers; these helpers build and
resolve them without repeated nil checks.
*/
package pointer

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Fallback dereferences p, or returns fallback when p is nil.
func Fallback[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
