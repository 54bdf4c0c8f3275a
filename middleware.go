package agentor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Middleware wraps a ToolProvider with cross-cutting behavior (logging,
// recovery). Apply with Wrap before handing the provider to a Registry.
type Middleware func(ToolProvider) ToolProvider

// Wrap applies middlewares to p in onion order: the first middleware is
// outermost.
func Wrap(p ToolProvider, middlewares ...Middleware) ToolProvider {
	for i := len(middlewares) - 1; i >= 0; i-- {
		p = middlewares[i](p)
	}
	return p
}

// WithLogging returns a middleware that logs every call with its duration and
// outcome.
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ToolProvider) ToolProvider {
		return &loggingProvider{providerBase{next}, logger}
	}
}

// WithRecovery returns a middleware that converts a panicking tool into a
// SystemError, which the engine reports to the model like any other tool
// failure instead of crashing the run.
func WithRecovery() Middleware {
	return func(next ToolProvider) ToolProvider {
		return &recoveryProvider{providerBase{next}}
	}
}

// providerBase delegates the descriptor side; middlewares override Call.
type providerBase struct {
	next ToolProvider
}

func (b *providerBase) Tools() []ToolDescriptor { return b.next.Tools() }

type loggingProvider struct {
	providerBase
	logger *slog.Logger
}

func (l *loggingProvider) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	l.logger.Info("tool start", "tool", name)
	start := time.Now()
	res, err := l.next.Call(ctx, name, args)
	dur := time.Since(start)
	if err != nil {
		l.logger.Error("tool error", "tool", name, "duration", dur, "error", err)
		return "", err
	}
	l.logger.Info("tool end", "tool", name, "duration", dur)
	return res, nil
}

type recoveryProvider struct {
	providerBase
}

func (r *recoveryProvider) Call(ctx context.Context, name string, args json.RawMessage) (res string, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = ""
			err = &SystemError{Err: &panicError{p: p}}
		}
	}()
	return r.next.Call(ctx, name, args)
}

// panicError wraps a recovered panic value for SystemError.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}
