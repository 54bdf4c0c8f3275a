package agentor

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Registry aggregates ToolProviders under a single namespace the model sees.
// Every provider gets a stable ordinal at registration time and each of its
// tool names is exposed as "<ordinal>-<name>", so tools from independently
// written providers can never collide. Dispatch reverses the prefix and routes
// to the owning provider with its local name and unmodified arguments.
//
// Providers are appended, never renumbered. Mutation is mutex-guarded, but a
// registry must not be mutated while a run is using it; once populated it can
// be shared read-only across concurrent agents.
type Registry struct {
	mu        sync.Mutex
	providers []ToolProvider
}

// NewRegistry creates a Registry over the given providers, in order.
func NewRegistry(providers ...ToolProvider) *Registry {
	r := &Registry{}
	r.providers = append(r.providers, providers...)
	return r
}

// AddProvider appends a provider under the next ordinal. Existing public names
// are unaffected.
func (r *Registry) AddProvider(p ToolProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, p)
}

// AddTool registers a single closure-backed tool after construction. It
// occupies its own ordinal (a one-tool Provider), so previously exposed names
// keep their prefixes.
func (r *Registry) AddTool(desc ToolDescriptor, fn ToolFunc, opts ...ToolOption) error {
	p := NewProvider()
	if err := p.Register(desc, fn, opts...); err != nil {
		return err
	}
	r.AddProvider(p)
	return nil
}

// Tools returns the union of every provider's descriptors with ordinal-prefixed
// names. Provider order and each provider's own descriptor order are preserved,
// so the listing is deterministic.
func (r *Registry) Tools() []ToolDescriptor {
	r.mu.Lock()
	providers := append([]ToolProvider(nil), r.providers...)
	r.mu.Unlock()

	var out []ToolDescriptor
	for i, p := range providers {
		for _, desc := range p.Tools() {
			desc.Name = publicToolName(i, desc.Name)
			out = append(out, desc)
		}
	}
	return out
}

// Call routes a public tool name back to the provider that owns it. Names that
// do not parse to a valid ordinal in range resolve to ErrToolNotFound, which is
// fatal to a run.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	ordinal, local, ok := splitPublicToolName(name)
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrToolNotFound)
	}

	r.mu.Lock()
	if ordinal >= len(r.providers) {
		r.mu.Unlock()
		return "", fmt.Errorf("%q: %w", name, ErrToolNotFound)
	}
	p := r.providers[ordinal]
	r.mu.Unlock()

	return p.Call(ctx, local, args)
}

// publicToolName builds the namespaced name a provider's tool is exposed under.
func publicToolName(ordinal int, local string) string {
	return strconv.Itoa(ordinal) + "-" + local
}

// splitPublicToolName reverses publicToolName. Splitting happens on the first
// separator only, so local names containing hyphens survive the round trip.
func splitPublicToolName(name string) (ordinal int, local string, ok bool) {
	prefix, local, found := strings.Cut(name, "-")
	if !found || local == "" {
		return 0, "", false
	}
	ordinal, err := strconv.Atoi(prefix)
	if err != nil || ordinal < 0 {
		return 0, "", false
	}
	return ordinal, local, true
}

var _ ToolProvider = (*Registry)(nil)
