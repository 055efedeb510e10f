// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medscope/medscope/pkg/pointer"
)

func TestFallback(t *testing.T) {
	assert.Equal(t, "kept", pointer.Fallback(nil, "kept"))
	assert.Equal(t, "", pointer.Fallback(pointer.To(""), "kept"))
	assert.Equal(t, 3, pointer.Fallback(pointer.To(3), 0))
}
