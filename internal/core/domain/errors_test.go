package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrRunInProgress", ErrRunInProgress},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrSourceFetch", ErrSourceFetch},
		{"ErrDateParse", ErrDateParse},
		{"ErrModelCall", ErrModelCall},
		{"ErrStoreCorrupt", ErrStoreCorrupt},
		{"ErrStoreUnreadable", ErrStoreUnreadable},
		{"ErrPersist", ErrPersist},
		{"ErrNothingToDigest", ErrNothingToDigest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_AreDistinct tests that sentinel errors do not match each other
func TestErrors_AreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrPersist, ErrStoreCorrupt))
	assert.False(t, errors.Is(ErrSourceFetch, ErrModelCall))
	assert.False(t, errors.Is(ErrNotFound, ErrAlreadyExists))
}

func TestSourceError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewSourceError("Google News·CN", cause)

	assert.Equal(t, `source "Google News·CN": connection refused`, err.Error())
	assert.True(t, errors.Is(err, ErrSourceFetch))
	assert.True(t, errors.Is(err, cause))

	wrapped := fmt.Errorf("fetch: %w", err)
	var srcErr *SourceError
	assert.True(t, errors.As(wrapped, &srcErr))
	assert.Equal(t, "Google News·CN", srcErr.Tag)
}

func TestModelCallError(t *testing.T) {
	cause := errors.New("HTTP 503")
	err := &ModelCallError{Kind: ModelCallStatus, Err: cause}

	assert.Equal(t, "model call (status): HTTP 503", err.Error())
	assert.True(t, errors.Is(err, ErrModelCall))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrSourceFetch))

	var mcErr *ModelCallError
	assert.True(t, errors.As(fmt.Errorf("gate: %w", err), &mcErr))
	assert.Equal(t, ModelCallStatus, mcErr.Kind)
}
