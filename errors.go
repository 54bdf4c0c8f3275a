package agentor

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to check.
var (
	// ErrToolNotFound marks a requested tool name that no provider resolves.
	// It aborts the run: an unknown name means the backend and the registry
	// disagree, and masking that would loop forever.
	ErrToolNotFound = errors.New("tool not found")
	// ErrNoRegistry marks a tool call arriving when the run has no registry.
	ErrNoRegistry = errors.New("no tool registry configured")
	// ErrIterationsExhausted marks a run that hit its iteration bound without a
	// terminal text response.
	ErrIterationsExhausted = errors.New("iteration limit reached without a final answer")
	// ErrValidation wraps schema or custom validation failures on tool arguments.
	ErrValidation = errors.New("validation failed")
)

// ExecutionError is a recoverable tool failure whose message is written into the
// conversation as the call's result so the model can react (e.g. "parameter out
// of range"). Do not put stack traces or internal details in Reason.
// Err optionally wraps a sentinel (e.g. ErrValidation) for errors.Is/errors.As.
type ExecutionError struct {
	Reason string
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool execution failed: %s", e.Reason)
}

// Unwrap supports errors.Is/errors.As on wrapped chains.
func (e *ExecutionError) Unwrap() error { return e.Err }

// SystemError represents an internal failure inside a tool (panic, marshal
// failure). The model sees only the generic message, never the wrapped error.
type SystemError struct {
	Err error
}

func (e *SystemError) Error() string {
	return "internal system error during tool execution"
}

func (e *SystemError) Unwrap() error { return e.Err }

// DecodeError is a fatal failure to parse the backend's final text into the
// requested answer type. Raw preserves the undecodable text for diagnostics.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsExecutionError returns true if err is or wraps an ExecutionError.
func IsExecutionError(err error) bool {
	var ee *ExecutionError
	return errors.As(err, &ee)
}

// IsSystemError returns true if err is or wraps a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// IsRecoverable reports whether a tool-call error should be surfaced to the
// model as the call's result text instead of aborting the run. A resolved tool
// that fails is recoverable; unknown tools and transport/session failures are
// not.
func IsRecoverable(err error) bool {
	return IsExecutionError(err) || IsSystemError(err)
}

// wrapJSONParseError returns an ExecutionError for JSON unmarshal failures so
// the parse message reaches the model for self-correction.
func wrapJSONParseError(err error) error {
	return &ExecutionError{Reason: "json parse error: " + err.Error()}
}
