package agentor

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMCPSession scripts an MCP server session without a transport.
type fakeMCPSession struct {
	tools    []mcp.Tool
	listErr  error
	callFn   func(req mcp.CallToolRequest) (*mcp.CallToolResult, error)
	closed   bool
	lastCall mcp.CallToolRequest
}

func (f *fakeMCPSession) ListTools(_ context.Context, _ mcp.ListToolsRequest) (*mcp.ListToolsResult, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &mcp.ListToolsResult{Tools: f.tools}, nil
}

func (f *fakeMCPSession) CallTool(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f.lastCall = req
	if f.callFn != nil {
		return f.callFn(req)
	}
	return &mcp.CallToolResult{}, nil
}

func (f *fakeMCPSession) Close() error {
	f.closed = true
	return nil
}

func timeServerSession() *fakeMCPSession {
	return &fakeMCPSession{
		tools: []mcp.Tool{
			{
				Name:        "get_current_time",
				Description: "Current time in a timezone",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]any{
						"timezone": map[string]any{"type": "string"},
					},
				},
			},
			{
				Name:        "convert_time",
				Description: "Convert a time between timezones",
				InputSchema: mcp.ToolInputSchema{Type: "object"},
			},
		},
	}
}

func TestMCPProvider_ListsToolsAtSessionStart(t *testing.T) {
	p, err := newMCPProvider(context.Background(), timeServerSession(), mcpOptions{})
	require.NoError(t, err)

	tools := p.Tools()
	require.Len(t, tools, 2)
	assert.Equal(t, "get_current_time", tools[0].Name)
	assert.Equal(t, "Current time in a timezone", tools[0].Description)
	require.NotNil(t, tools[0].Schema)
	assert.Equal(t, "object", tools[0].Schema["type"])
	props, ok := tools[0].Schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "timezone")
}

func TestMCPProvider_AllowedToolsFilter(t *testing.T) {
	p, err := newMCPProvider(context.Background(), timeServerSession(), mcpOptions{
		allowed: []string{"convert_time"},
	})
	require.NoError(t, err)

	tools := p.Tools()
	require.Len(t, tools, 1)
	assert.Equal(t, "convert_time", tools[0].Name)
}

func TestMCPProvider_ListFailureIsFatal(t *testing.T) {
	session := &fakeMCPSession{listErr: errors.New("handshake failed")}
	_, err := newMCPProvider(context.Background(), session, mcpOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handshake failed")
}

func TestMCPProvider_CallSuccess(t *testing.T) {
	session := timeServerSession()
	session.callFn = func(_ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent("12:00 UTC")},
		}, nil
	}
	p, err := newMCPProvider(context.Background(), session, mcpOptions{})
	require.NoError(t, err)

	res, err := p.Call(context.Background(), "get_current_time", raw(`{"timezone":"UTC"}`))
	require.NoError(t, err)
	assert.Contains(t, res, "12:00 UTC")

	// Arguments arrive decoded, under the local name.
	assert.Equal(t, "get_current_time", session.lastCall.Params.Name)
	args, ok := session.lastCall.Params.Arguments.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "UTC", args["timezone"])
}

func TestMCPProvider_ServerErrorIsRecoverable(t *testing.T) {
	session := timeServerSession()
	session.callFn = func(_ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{mcp.NewTextContent("timezone must be an IANA name")},
		}, nil
	}
	p, err := newMCPProvider(context.Background(), session, mcpOptions{})
	require.NoError(t, err)

	_, err = p.Call(context.Background(), "get_current_time", raw(`{"timezone":"nowhere"}`))
	require.Error(t, err)
	assert.True(t, IsExecutionError(err), "server-reported tool errors go back to the model")
	assert.Contains(t, err.Error(), "IANA name")
}

func TestMCPProvider_UnknownToolMapsToNotFound(t *testing.T) {
	session := timeServerSession()
	session.callFn = func(_ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{mcp.NewTextContent("Unknown tool: ghost")},
		}, nil
	}
	p, err := newMCPProvider(context.Background(), session, mcpOptions{})
	require.NoError(t, err)

	_, err = p.Call(context.Background(), "ghost", raw(`{}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrToolNotFound)
	assert.False(t, IsRecoverable(err))
}

func TestMCPProvider_SessionFailureIsFatal(t *testing.T) {
	rpcErr := errors.New("rpc: connection closed")
	session := timeServerSession()
	session.callFn = func(_ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, rpcErr
	}
	p, err := newMCPProvider(context.Background(), session, mcpOptions{})
	require.NoError(t, err)

	_, err = p.Call(context.Background(), "get_current_time", raw(`{}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, rpcErr)
	assert.False(t, IsRecoverable(err))
}

func TestMCPProvider_InvalidArgumentsAreRecoverable(t *testing.T) {
	p, err := newMCPProvider(context.Background(), timeServerSession(), mcpOptions{})
	require.NoError(t, err)

	_, err = p.Call(context.Background(), "get_current_time", raw(`[1,2]`))
	require.Error(t, err)
	assert.True(t, IsExecutionError(err))
}

func TestMCPProvider_Close(t *testing.T) {
	session := timeServerSession()
	p, err := newMCPProvider(context.Background(), session, mcpOptions{})
	require.NoError(t, err)
	require.NoError(t, p.Close())
	assert.True(t, session.closed)
}

func TestMCPProvider_InsideRegistry(t *testing.T) {
	session := timeServerSession()
	session.callFn = func(_ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent("ok")}}, nil
	}
	p, err := newMCPProvider(context.Background(), session, mcpOptions{})
	require.NoError(t, err)

	reg := NewRegistry(p)
	tools := reg.Tools()
	require.Len(t, tools, 2)
	assert.Equal(t, "0-get_current_time", tools[0].Name)

	res, err := reg.Call(context.Background(), "0-convert_time", raw(`{}`))
	require.NoError(t, err)
	assert.Contains(t, res, "ok")
	assert.Equal(t, "convert_time", session.lastCall.Params.Name)
}
