package agentor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionError(t *testing.T) {
	err := &ExecutionError{Reason: "bad enum value", Err: ErrValidation}
	assert.Contains(t, err.Error(), "bad enum value")
	assert.ErrorIs(t, err, ErrValidation)
	assert.True(t, IsExecutionError(err))
	assert.False(t, IsSystemError(err))
	assert.True(t, IsRecoverable(err))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsExecutionError(wrapped))
	assert.True(t, IsRecoverable(wrapped))
}

func TestSystemError(t *testing.T) {
	inner := errors.New("connection pool exhausted")
	err := &SystemError{Err: inner}
	// Internal detail stays out of the message the model would see.
	assert.NotContains(t, err.Error(), "connection pool")
	assert.ErrorIs(t, err, inner)
	assert.True(t, IsSystemError(err))
	assert.False(t, IsExecutionError(err))
	assert.True(t, IsRecoverable(err))
}

func TestDecodeError(t *testing.T) {
	inner := errors.New("invalid character 'n'")
	err := &DecodeError{Raw: "not json", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "not json", err.Raw)
	assert.False(t, IsRecoverable(err))
}

func TestSentinelsAreNotRecoverable(t *testing.T) {
	require.False(t, IsRecoverable(ErrToolNotFound))
	require.False(t, IsRecoverable(ErrIterationsExhausted))
	require.False(t, IsRecoverable(ErrNoRegistry))
	require.False(t, IsRecoverable(fmt.Errorf("tool %q: %w", "x", ErrToolNotFound)))
}

func TestWrapJSONParseError(t *testing.T) {
	err := wrapJSONParseError(errors.New("unexpected end of input"))
	assert.True(t, IsExecutionError(err))
	assert.Contains(t, err.Error(), "json parse error")
}
