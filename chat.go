package agentor

import "context"

// ChatOptions are per-request generation settings. The zero value disables every
// knob; DefaultChatOptions returns the defaults Run uses when the caller passes
// nothing.
type ChatOptions struct {
	Temperature float32
	MaxTokens   int
	// ResponseSchema, when non-nil, asks the backend to constrain generation to
	// this JSON Schema. Run fills it from the answer type; callers normally leave
	// it unset.
	ResponseSchema map[string]any
	// ResponseSchemaName labels the schema for backends that require a name.
	ResponseSchemaName string
}

// DefaultChatOptions returns the options used when a run does not override them.
func DefaultChatOptions() ChatOptions {
	return ChatOptions{Temperature: 0.2}
}

// ChatRequest is one outbound exchange with the chat backend: the full
// conversation so far plus the tool descriptors the model may call.
type ChatRequest struct {
	Model    string
	Messages []Message
	Tools    []ToolDescriptor
	Options  ChatOptions
}

// ChatResponse is the backend's reply to one ChatRequest. A response carries
// either Text or ToolCalls, never both. Reasoning is ancillary trace content;
// the engine logs it and never stores it in history.
type ChatResponse struct {
	Text      string
	ToolCalls []ToolCall
	Reasoning string
}

// ChatClient is the transport contract to a chat-completion backend. The engine
// never constructs one; it is injected at Agent construction. Implementations
// own authentication, retries, and the wire protocol.
type ChatClient interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
