package agentor

import "log/slog"

// toolOptions hold optional per-registration settings.
type toolOptions struct {
	strict bool
}

// ToolOption configures a tool registration.
type ToolOption func(*toolOptions)

// WithStrict sets strict mode for the generated schema: additionalProperties:
// false for all objects and all properties required. Use for OpenAI Structured
// Outputs compatibility.
func WithStrict() ToolOption {
	return func(o *toolOptions) {
		o.strict = true
	}
}

// Option configures an Agent at construction.
type Option func(*Agent)

// WithLogger sets the logger used for iteration, reasoning, and tool-dispatch
// trace output. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// runConfig holds per-run settings resolved from RunOptions.
type runConfig struct {
	registry      *Registry
	maxIterations int
	chatOpts      ChatOptions
	lenient       bool
}

// RunOption configures a single Run call.
type RunOption func(*runConfig)

// WithRegistry makes the registry's tools available to the model for this run.
func WithRegistry(r *Registry) RunOption {
	return func(c *runConfig) {
		c.registry = r
	}
}

// WithMaxIterations bounds the number of model turns for this run. Values below
// 1 are ignored. Default is 5.
func WithMaxIterations(n int) RunOption {
	return func(c *runConfig) {
		if n >= 1 {
			c.maxIterations = n
		}
	}
}

// WithChatOptions replaces the default request options (temperature 0.2) for
// this run. Any ResponseSchema set here is overwritten when the answer type
// requires structured output.
func WithChatOptions(opts ChatOptions) RunOption {
	return func(c *runConfig) {
		c.chatOpts = opts
	}
}

// WithLenientDispatch downgrades unresolved tool names from fatal to logged:
// the not-found message is recorded as the call's result and the run continues.
// The default (fatal) is safer because it cannot mask a backend/registry
// mismatch; this mode exists for tool servers that advertise names they later
// refuse.
func WithLenientDispatch() RunOption {
	return func(c *runConfig) {
		c.lenient = true
	}
}
