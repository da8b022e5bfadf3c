package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesExistingCode(t *testing.T) {
	inner := New(CodeModuleLoadFailed, "factory exploded")
	wrapped := Wrap(inner, CodeUnavailable, "resolution failed")

	// The original category survives re-wrapping at outer layers.
	assert.True(t, HasCode(wrapped, CodeModuleLoadFailed))
	assert.False(t, HasCode(wrapped, CodeUnavailable))
	assert.ErrorIs(t, wrapped, inner)
}

func TestWrapAppliesCodeToPlainErrors(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := Wrap(cause, CodeUnavailable, "assignments unavailable")

	assert.True(t, HasCode(wrapped, CodeUnavailable))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "assignments unavailable", wrapped.Error())
}

func TestHasCode(t *testing.T) {
	err := New(CodeNotFound, "missing")
	assert.True(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
	assert.False(t, HasCode(nil, CodeNotFound))

	// Codes are found through fmt wrapping too.
	assert.True(t, HasCode(fmt.Errorf("outer: %w", err), CodeNotFound))
}

func TestIsMatchesByCode(t *testing.T) {
	a := New(CodeUnavailable, "store one down")
	b := New(CodeUnavailable, "store two down")
	require.True(t, errors.Is(a, b))

	c := New(CodeNotFound, "missing")
	assert.False(t, errors.Is(a, c))
}

func TestErrorMessageFallsBackToCode(t *testing.T) {
	err := &Error{Code: CodeInternal}
	assert.Equal(t, string(CodeInternal), err.Error())
}
