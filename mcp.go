package agentor

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// mcpSession is the narrow slice of an MCP client session the provider needs.
// *client.Client satisfies it; tests substitute a fake.
type mcpSession interface {
	ListTools(ctx context.Context, req mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// MCPProvider proxies tool calls to an MCP tool server. The descriptor list is
// fetched once when the session is established and stays fixed for the
// provider's lifetime. Concurrent calls are as safe as the underlying session
// makes them; the provider adds no locking of its own.
//
// Failure mapping: a result the server flags as an error becomes a recoverable
// ExecutionError (servers often return information the model should see that
// way), except "Unknown tool" responses, which map to ErrToolNotFound; session
// or RPC failures propagate unchanged and abort the run.
type MCPProvider struct {
	session mcpSession
	tools   []ToolDescriptor
}

// mcpOptions hold optional MCP provider settings.
type mcpOptions struct {
	allowed []string
	env     []string
}

// MCPOption configures an MCP provider constructor.
type MCPOption func(*mcpOptions)

// WithAllowedTools restricts the provider to the named tools; everything else
// the server advertises is dropped from the descriptor list.
func WithAllowedTools(names ...string) MCPOption {
	return func(o *mcpOptions) {
		o.allowed = names
	}
}

// WithEnv sets extra environment variables ("KEY=value") for the subprocess of
// a stdio provider. Ignored by the HTTP constructor.
func WithEnv(env ...string) MCPOption {
	return func(o *mcpOptions) {
		o.env = env
	}
}

// NewStdioMCPProvider spawns command as a subprocess-backed MCP tool server,
// initializes the session, and lists its tools.
func NewStdioMCPProvider(ctx context.Context, command string, args []string, opts ...MCPOption) (*MCPProvider, error) {
	var o mcpOptions
	for _, opt := range opts {
		opt(&o)
	}
	c, err := client.NewStdioMCPClient(command, o.env, args...)
	if err != nil {
		return nil, fmt.Errorf("spawn mcp server %q: %w", command, err)
	}
	p, err := newMCPProvider(ctx, c, o)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	return p, nil
}

// NewHTTPMCPProvider connects to a network-addressed MCP tool server over the
// streamable HTTP transport, initializes the session, and lists its tools.
func NewHTTPMCPProvider(ctx context.Context, baseURL string, opts ...MCPOption) (*MCPProvider, error) {
	var o mcpOptions
	for _, opt := range opts {
		opt(&o)
	}
	c, err := client.NewStreamableHttpClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("connect mcp server %q: %w", baseURL, err)
	}
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("start mcp session %q: %w", baseURL, err)
	}
	p, err := newMCPProvider(ctx, c, o)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	return p, nil
}

// newMCPProvider lists the session's tools and converts them to descriptors.
func newMCPProvider(ctx context.Context, session mcpSession, o mcpOptions) (*MCPProvider, error) {
	if c, ok := session.(*client.Client); ok {
		initReq := mcp.InitializeRequest{}
		initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
		initReq.Params.ClientInfo = mcp.Implementation{Name: "agentor", Version: "0.1.0"}
		if _, err := c.Initialize(ctx, initReq); err != nil {
			return nil, fmt.Errorf("initialize mcp session: %w", err)
		}
	}

	listed, err := session.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("list mcp tools: %w", err)
	}
	tools := make([]ToolDescriptor, 0, len(listed.Tools))
	for _, t := range listed.Tools {
		if o.allowed != nil && !slices.Contains(o.allowed, t.Name) {
			continue
		}
		schema, err := toSchemaMap(t.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("tool %q: convert input schema: %w", t.Name, err)
		}
		tools = append(tools, ToolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			Schema:      schema,
		})
	}
	return &MCPProvider{session: session, tools: tools}, nil
}

// Tools returns the descriptors listed at session start.
func (p *MCPProvider) Tools() []ToolDescriptor {
	return slices.Clone(p.tools)
}

// Call forwards one tool invocation to the server and renders the response
// content as JSON, matching what the model expects to read back.
func (p *MCPProvider) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	arguments := map[string]any{}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &arguments); err != nil {
			return "", wrapJSONParseError(err)
		}
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = arguments

	res, err := p.session.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("mcp call %q: %w", name, err)
	}
	if res.IsError {
		msg := firstTextContent(res.Content)
		if msg == "" {
			msg = "unknown error"
		}
		if strings.Contains(msg, "Unknown tool") {
			return "", fmt.Errorf("%q: %w", name, ErrToolNotFound)
		}
		return "", &ExecutionError{Reason: msg}
	}
	out, err := json.Marshal(res.Content)
	if err != nil {
		return "", &SystemError{Err: err}
	}
	return string(out), nil
}

// Close tears down the underlying session.
func (p *MCPProvider) Close() error {
	return p.session.Close()
}

// firstTextContent returns the first text block of an MCP result, or "".
func firstTextContent(content []mcp.Content) string {
	for _, c := range content {
		if tc, ok := mcp.AsTextContent(c); ok {
			return tc.Text
		}
	}
	return ""
}

// toSchemaMap converts an MCP input schema to the map form descriptors carry.
func toSchemaMap(schema mcp.ToolInputSchema) (map[string]any, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

var _ ToolProvider = (*MCPProvider)(nil)
