package tioanime

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindMessages(t *testing.T) {
	assert.Equal(t, "[ERROR] Not Found.", ErrNotFound.Error())
	assert.Equal(t, "[ERROR] No items found.", ErrNoItems.Error())
	assert.Equal(t, "[ERROR] 'page' parameter passed greater than total pages.", ErrPageExceeded.Error())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "default_error", Kind(99).String())
	assert.Equal(t, KindDefault.Message(), Kind(99).Message())
}

// TestError_IsMatchesKind verifies errors.Is matches by kind regardless of
// message, context or wrapping
func TestError_IsMatchesKind(t *testing.T) {
	err := Errorf(KindPageExceeded, "custom").With("info", "total pages: 2")

	assert.True(t, errors.Is(err, ErrPageExceeded))
	assert.False(t, errors.Is(err, ErrNotFound))

	wrapped := fmt.Errorf("search failed: %w", err)
	assert.True(t, errors.Is(wrapped, ErrPageExceeded))
}

// TestError_Wrap verifies the cause stays reachable
func TestError_Wrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewError(KindInternal).Wrap(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Nil(t, ErrInternal.Err, "sentinel should not be modified")
}

// TestError_Wrap_SameMessage verifies the message is not repeated when the
// cause says the same thing
func TestError_Wrap_SameMessage(t *testing.T) {
	cause := errors.New("property 'foo' is not in filters")
	err := &Error{Kind: KindValidation, Message: cause.Error(), Err: cause}

	assert.Equal(t, "property 'foo' is not in filters", err.Error())
}

// TestError_WithCopies verifies With never mutates the receiver
func TestError_WithCopies(t *testing.T) {
	base := NewError(KindPageExceeded)
	a := base.With("info", "total pages: 1")
	b := a.With("query", "query: naruto")

	assert.Nil(t, base.Context)
	assert.Equal(t, map[string]string{"info": "total pages: 1"}, a.Context)
	assert.Equal(t, map[string]string{"info": "total pages: 1", "query": "query: naruto"}, b.Context)
}

// TestError_MarshalJSON verifies context fields are merged next to the
// message
func TestError_MarshalJSON(t *testing.T) {
	err := NewError(KindPageExceeded).
		With("info", "total pages: 2").
		With("query", "query: naruto")

	data, jerr := json.Marshal(err)
	require.NoError(t, jerr)

	var got map[string]string
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, map[string]string{
		"message": "[ERROR] 'page' parameter passed greater than total pages.",
		"info":    "total pages: 2",
		"query":   "query: naruto",
	}, got)
}
