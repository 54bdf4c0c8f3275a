package agentor

import (
	"context"
	"encoding/json"
	"regexp"
)

// ToolDescriptor describes one callable tool as exposed to the model.
// Name is required and must match the identifier grammar chat backends accept
// (letters, digits, underscore, hyphen). Description and Schema are optional but
// strongly recommended; Config is provider-private and never sent to the model.
type ToolDescriptor struct {
	Name        string
	Description string
	// Schema is a JSON Schema-shaped value describing accepted arguments.
	Schema map[string]any
	// Config carries opaque provider-specific settings.
	Config map[string]any
}

// ToolProvider is a source of tools, local or remote-proxied. Implementations
// must keep Tools stable for the lifetime of a run; Call receives the
// provider-local tool name and the raw JSON arguments.
//
// Call errors fall into two classes: recoverable execution failures
// (*ExecutionError, *SystemError) whose text the engine feeds back to the model,
// and everything else, which aborts the run. See IsRecoverable.
type ToolProvider interface {
	Tools() []ToolDescriptor
	Call(ctx context.Context, name string, args json.RawMessage) (string, error)
}

var toolNameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidToolName reports whether name matches the identifier grammar accepted by
// chat backends.
func ValidToolName(name string) bool {
	return toolNameRe.MatchString(name)
}
