package agentor

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sync"
)

// ToolFunc is the handler signature for tools registered on a Provider: raw
// JSON arguments in, textual result out. Recoverable failures should be
// returned as *ExecutionError (or created via fmt.Errorf and wrapped by the
// provider as SystemError otherwise).
type ToolFunc func(ctx context.Context, args json.RawMessage) (string, error)

// localTool pairs a descriptor with its validated handler.
type localTool struct {
	desc ToolDescriptor
	fn   ToolFunc
}

// Provider is an in-process ToolProvider assembled from explicit registrations.
// Each registration pairs a name with a schema and a handler, so no code
// generation or struct annotation machinery is involved; RegisterTool derives
// the schema from a typed function instead. Registration must finish before the
// provider is handed to a running agent.
type Provider struct {
	mu    sync.Mutex
	order []string
	tools map[string]localTool
}

// NewProvider creates an empty Provider.
func NewProvider() *Provider {
	return &Provider{tools: make(map[string]localTool)}
}

// Register adds a tool described by a raw JSON Schema map and backed by fn.
// Incoming arguments are validated against the schema before fn runs; parse or
// validation failures surface to the model as ExecutionError. The schema map is
// deep-copied and never mutated. Registering a name twice is an error.
func (p *Provider) Register(desc ToolDescriptor, fn ToolFunc, opts ...ToolOption) error {
	var o toolOptions
	for _, opt := range opts {
		opt(&o)
	}
	if !ValidToolName(desc.Name) {
		return fmt.Errorf("invalid tool name %q", desc.Name)
	}
	if fn == nil {
		return fmt.Errorf("tool %q: handler must not be nil", desc.Name)
	}

	wrapped := fn
	if desc.Schema != nil {
		schemaCopy, err := cloneSchema(desc.Schema)
		if err != nil {
			return fmt.Errorf("tool %q: copy schema: %w", desc.Name, err)
		}
		if o.strict {
			applyStrictMode(schemaCopy)
		}
		stripSchemaIDs(schemaCopy)
		compiled, err := compileRawSchema(schemaCopy)
		if err != nil {
			return fmt.Errorf("tool %q: compile schema: %w", desc.Name, err)
		}
		desc.Schema = schemaCopy
		wrapped = func(ctx context.Context, args json.RawMessage) (string, error) {
			var v any
			if err := json.Unmarshal(args, &v); err != nil {
				return "", wrapJSONParseError(err)
			}
			if err := validateAgainstSchema(compiled, v); err != nil {
				return "", err
			}
			res, err := fn(ctx, args)
			if err != nil {
				return "", wrapHandlerError(err)
			}
			return res, nil
		}
	}
	desc.Config = maps.Clone(desc.Config)

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.tools[desc.Name]; exists {
		return fmt.Errorf("tool %q already registered", desc.Name)
	}
	p.order = append(p.order, desc.Name)
	p.tools[desc.Name] = localTool{desc: desc, fn: wrapped}
	return nil
}

// RegisterTool registers a typed function as a tool on p. The argument schema
// is derived from T (see Extractor); the result is the string itself when R is
// string, otherwise its JSON encoding. Returns an error if schema generation
// fails or the name is taken.
func RegisterTool[T any, R any](
	p *Provider,
	name, description string,
	fn func(ctx context.Context, args T) (R, error),
	opts ...ToolOption,
) error {
	var o toolOptions
	for _, opt := range opts {
		opt(&o)
	}
	if !ValidToolName(name) {
		return fmt.Errorf("invalid tool name %q", name)
	}
	ext, err := NewExtractor[T](o.strict)
	if err != nil {
		return fmt.Errorf("tool %q: generate schema: %w", name, err)
	}
	handler := func(ctx context.Context, argsJSON json.RawMessage) (string, error) {
		args, err := ext.ParseAndValidate(argsJSON)
		if err != nil {
			return "", err
		}
		res, err := fn(ctx, args)
		if err != nil {
			return "", wrapHandlerError(err)
		}
		return stringifyResult(res)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	p.order = append(p.order, name)
	p.tools[name] = localTool{
		desc: ToolDescriptor{Name: name, Description: description, Schema: ext.Schema()},
		fn:   handler,
	}
	return nil
}

// Tools returns descriptors in registration order.
func (p *Provider) Tools() []ToolDescriptor {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ToolDescriptor, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.tools[name].desc)
	}
	return out
}

// Call dispatches to the named tool. Unknown names return ErrToolNotFound.
func (p *Provider) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	p.mu.Lock()
	t, ok := p.tools[name]
	p.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrToolNotFound)
	}
	return t.fn(ctx, args)
}

// Len returns the number of registered tools.
func (p *Provider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tools)
}

// wrapHandlerError passes through ExecutionError; everything else becomes a
// SystemError so internals never leak into the conversation.
func wrapHandlerError(err error) error {
	if err == nil {
		return nil
	}
	if IsExecutionError(err) || IsSystemError(err) {
		return err
	}
	return &SystemError{Err: err}
}

// stringifyResult renders a tool result for the conversation: strings pass
// through, everything else is JSON-encoded.
func stringifyResult(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", &SystemError{Err: err}
	}
	return string(b), nil
}

// cloneSchema deep-copies a schema map via a JSON round trip.
func cloneSchema(schema map[string]any) (map[string]any, error) {
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

var _ ToolProvider = (*Provider)(nil)
