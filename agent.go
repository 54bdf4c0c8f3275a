package agentor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// defaultIterations bounds model turns when the caller does not override it.
const defaultIterations = 5

// Agent drives a multi-turn exchange with a chat backend. It owns the
// conversation: an append-only message sequence whose first element is always
// the system message given at construction. History persists across Run calls
// so consecutive runs continue the same dialogue; ClearHistory starts over.
//
// An Agent is not safe for concurrent Run calls. Independent Agents share no
// state and may run concurrently.
type Agent struct {
	client  ChatClient
	logger  *slog.Logger
	system  string
	history []Message
}

// New creates an Agent speaking through client, seeded with the given system
// message. The client is required; there is no implicit default transport.
func New(client ChatClient, system string, opts ...Option) *Agent {
	a := &Agent{
		client: client,
		logger: slog.Default(),
		system: system,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.history = []Message{SystemMessage(system)}
	return a
}

// History returns a copy of the conversation so far.
func (a *Agent) History() []Message {
	return slices.Clone(a.history)
}

// ClearHistory resets the conversation to the original system message.
func (a *Agent) ClearHistory() {
	a.history = []Message{SystemMessage(a.system)}
}

// Run drives the request/response/tool-dispatch loop until the backend returns
// terminal text, then decodes it into T and returns it with the zero-based
// index of the iteration that produced it.
//
// T selects the response shape: string requests plain text; any other type
// attaches its derived JSON Schema to the request and parses the answer
// strictly (a parse failure is a fatal *DecodeError).
//
// Tool calls requested by the model are dispatched through the registry from
// WithRegistry, strictly in emission order, one at a time. A tool that exists
// but fails has its message recorded as the call's result so the model can
// react; an unknown tool name, a missing registry, a transport failure, or an
// exhausted iteration bound (ErrIterationsExhausted) aborts the run.
//
// The prompt and everything the loop produces are appended to the agent's
// history and stay there after Run returns. There is no internal timeout or
// cancellation; bound the whole call through ctx.
func Run[T any](ctx context.Context, a *Agent, model, prompt string, opts ...RunOption) (T, int, error) {
	var zero T
	cfg := runConfig{
		maxIterations: defaultIterations,
		chatOpts:      DefaultChatOptions(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	co, err := newCoercer[T]()
	if err != nil {
		return zero, 0, fmt.Errorf("resolve answer shape: %w", err)
	}
	co.apply(&cfg.chatOpts)

	a.logger.Debug("agent question", "prompt", prompt)
	a.history = append(a.history, UserMessage(prompt))

	// The registry is read-only during a run; list once.
	var tools []ToolDescriptor
	if cfg.registry != nil {
		tools = cfg.registry.Tools()
	}

	for iteration := 0; iteration < cfg.maxIterations; iteration++ {
		a.logger.Debug("agent iteration", "iteration", iteration)
		resp, err := a.client.Chat(ctx, ChatRequest{
			Model:    model,
			Messages: slices.Clone(a.history),
			Tools:    tools,
			Options:  cfg.chatOpts,
		})
		if err != nil {
			return zero, iteration, fmt.Errorf("chat transport: %w", err)
		}
		if resp.Reasoning != "" {
			a.logger.Debug("agent reasoning", "reasoning", resp.Reasoning)
		}

		switch {
		case len(resp.ToolCalls) > 0:
			a.history = append(a.history, ToolCallMessage(resp.ToolCalls))
			for _, call := range resp.ToolCalls {
				result, err := a.dispatch(ctx, &cfg, call)
				if err != nil {
					return zero, iteration, err
				}
				a.history = append(a.history, ToolResultMessage(call.ID, result))
			}

		case resp.Text != "":
			a.logger.Debug("agent answer", "answer", resp.Text)
			a.history = append(a.history, AssistantMessage(resp.Text))
			out, err := co.decode(resp.Text)
			if err != nil {
				return zero, iteration, err
			}
			return out, iteration, nil

		default:
			return zero, iteration, errors.New("unsupported response shape: neither text nor tool calls")
		}
	}

	return zero, cfg.maxIterations, fmt.Errorf("%w (%d iterations)", ErrIterationsExhausted, cfg.maxIterations)
}

// dispatch resolves and executes one tool call. It returns the text to record
// as the call's result, or a fatal error that aborts the run. Recoverable
// failures (ExecutionError, SystemError) become result text: some tool errors
// carry information the model can react to.
func (a *Agent) dispatch(ctx context.Context, cfg *runConfig, call ToolCall) (string, error) {
	a.logger.Debug("tool request", "tool", call.Name, "args", string(call.Args))

	if cfg.registry == nil {
		if cfg.lenient {
			a.logger.Warn("tool requested without a registry", "tool", call.Name)
			return ErrNoRegistry.Error(), nil
		}
		return "", fmt.Errorf("tool %q requested: %w", call.Name, ErrNoRegistry)
	}

	result, err := cfg.registry.Call(ctx, call.Name, call.Args)
	switch {
	case err == nil:
		a.logger.Debug("tool result", "tool", call.Name, "result", result)
		return result, nil
	case errors.Is(err, ErrToolNotFound):
		if cfg.lenient {
			a.logger.Warn("skipping unresolved tool", "tool", call.Name, "error", err)
			return err.Error(), nil
		}
		return "", err
	case IsRecoverable(err):
		a.logger.Debug("tool error surfaced to model", "tool", call.Name, "error", err)
		return err.Error(), nil
	default:
		// Transport/session failure from a remote provider: fatal, unchanged.
		return "", err
	}
}
