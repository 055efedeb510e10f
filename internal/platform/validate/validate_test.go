// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medscope/medscope/internal/platform/apperr"
	"github.com/medscope/medscope/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "ios-app", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.Error(t, v.Err())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, apperr.KindValidation, ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.NoError(t, v.Err())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.NoError(t, v.Err())
			} else {
				assert.Error(t, v.Err())
			}
		})
	}
}

/*
TestValidator_RelativePath checks the blob path rule.
*/
func TestValidator_RelativePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		isValid bool
	}{
		{"simple_file", "uploads/x.pdf", true},
		{"nested_folder", "patients/42/scans", true},
		{"dotted_name", "report..final.pdf", true},
		{"absolute", "/etc/passwd", false},
		{"parent_escape", "../secrets", false},
		{"inner_escape", "uploads/../../secrets", false},
		{"backslash", "uploads\\x.pdf", false},
		{"current_dir", ".", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.RelativePath("path", tt.path)
			assert.Equal(t, !tt.isValid, v.Err() != nil)
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("name", "ios").
		MaxLen("name", "ios", 10).
		Email("email", "doctor@clinic.test").
		UUID("id", "0190f3a2-7c1e-7d4b-9a6e-2f1c3b4d5e6f").
		Err()

	assert.NoError(t, err)
	assert.NoError(t, v.Err())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("name", "").           // Fails
		MaxLen("bio", "abcdef", 5).     // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

/*
TestValidator_Password checks the password strength rule.
*/
func TestValidator_Password(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"strong", "Medscope1!", true},
		{"too_short", "Ms1!", false},
		{"no_uppercase", "medscope1!", false},
		{"no_digit", "Medscope!!", false},
		{"no_special", "Medscope11", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Password("password", tt.value)
			assert.Equal(t, !tt.isValid, v.Err() != nil)
		})
	}
}
