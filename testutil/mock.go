// Package testutil provides test doubles for agentor: a scripted chat backend
// and a configurable tool provider.
package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/agentor-ai/agentor"
)

// Step is one scripted backend turn: a response or an error.
type Step struct {
	Response *agentor.ChatResponse
	Err      error
}

// TextStep returns a step answering with plain text.
func TextStep(text string) Step {
	return Step{Response: &agentor.ChatResponse{Text: text}}
}

// ToolCallStep returns a step requesting the given tool calls. Calls with an
// empty ID get a generated one, as a real backend would issue.
func ToolCallStep(calls ...agentor.ToolCall) Step {
	for i := range calls {
		if calls[i].ID == "" {
			calls[i].ID = uuid.NewString()
		}
		if calls[i].Args == nil {
			calls[i].Args = json.RawMessage(`{}`)
		}
	}
	return Step{Response: &agentor.ChatResponse{ToolCalls: calls}}
}

// ErrStep returns a step failing with err (a transport failure).
func ErrStep(err error) Step {
	return Step{Err: err}
}

// MockChatClient replays a scripted sequence of responses and records every
// request it receives. Safe for concurrent use.
type MockChatClient struct {
	mu       sync.Mutex
	script   []Step
	requests []agentor.ChatRequest
}

// NewMockChatClient creates a client that replays script in order.
func NewMockChatClient(script ...Step) *MockChatClient {
	return &MockChatClient{script: script}
}

// Chat pops the next scripted step. Running past the script is an error.
func (m *MockChatClient) Chat(_ context.Context, req agentor.ChatRequest) (*agentor.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if len(m.script) == 0 {
		return nil, errors.New("mock chat client: script exhausted")
	}
	step := m.script[0]
	m.script = m.script[1:]
	if step.Err != nil {
		return nil, step.Err
	}
	return step.Response, nil
}

// Requests returns a copy of every request received so far.
func (m *MockChatClient) Requests() []agentor.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]agentor.ChatRequest(nil), m.requests...)
}

// CallRecord is one dispatched call as seen by a MockProvider.
type CallRecord struct {
	Name string
	Args json.RawMessage
}

// MockProvider is a configurable ToolProvider that records calls.
type MockProvider struct {
	ToolsVal []agentor.ToolDescriptor
	// CallFn handles Call when set; otherwise Call returns "" and no error.
	CallFn func(ctx context.Context, name string, args json.RawMessage) (string, error)

	mu    sync.Mutex
	calls []CallRecord
}

// Tools returns ToolsVal.
func (m *MockProvider) Tools() []agentor.ToolDescriptor {
	return m.ToolsVal
}

// Call records the invocation and delegates to CallFn if set.
func (m *MockProvider) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, CallRecord{Name: name, Args: append(json.RawMessage(nil), args...)})
	m.mu.Unlock()
	if m.CallFn != nil {
		return m.CallFn(ctx, name, args)
	}
	return "", nil
}

// Calls returns a copy of every recorded call.
func (m *MockProvider) Calls() []CallRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CallRecord(nil), m.calls...)
}

var (
	_ agentor.ChatClient   = (*MockChatClient)(nil)
	_ agentor.ToolProvider = (*MockProvider)(nil)
)
