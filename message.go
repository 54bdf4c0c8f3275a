package agentor

import (
	"encoding/json"
	"slices"
	"strings"
)

// Role identifies who produced a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a single execution request as emitted by the model.
type ToolCall struct {
	// ID is the backend-issued correlation token linking this request to its
	// result message.
	ID string
	// Name is the tool name as the model saw it (the registry's public,
	// ordinal-prefixed name).
	Name string
	// Args is the JSON payload of arguments.
	Args json.RawMessage
}

// Message is one entry of a conversation. Exactly one of the payloads is
// meaningful per role: Text for system/user/assistant answers, ToolCalls for an
// assistant turn that requests execution, and CallID+Text for a tool result.
// Messages are never mutated after being appended to a conversation.
type Message struct {
	Role      Role
	Text      string
	ToolCalls []ToolCall // assistant turn requesting tool execution
	CallID    string     // correlation id on RoleTool results
}

// SystemMessage returns a system message with surrounding whitespace trimmed.
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Text: strings.TrimSpace(text)}
}

// UserMessage returns a user message.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// AssistantMessage returns a plain-text assistant message.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Text: text}
}

// ToolCallMessage returns the assistant message recording every tool call of one
// model turn, preserving emission order. The slice is copied.
func ToolCallMessage(calls []ToolCall) Message {
	return Message{Role: RoleAssistant, ToolCalls: slices.Clone(calls)}
}

// ToolResultMessage returns the result message for one tool call.
func ToolResultMessage(callID, text string) Message {
	return Message{Role: RoleTool, CallID: callID, Text: text}
}
