// Package agentor implements a conversational tool-calling orchestration engine
// for LLM agents: a multi-turn loop that sends the growing conversation to a chat
// backend, dispatches the tool calls the model requests, feeds results back, and
// terminates with a decoded answer or a bounded failure.
//
// # Overview
//
// The Agent owns an append-only conversation whose first message is always the
// system prompt. Run drives the loop: each iteration sends the full history plus
// the registry's tool descriptors; a text response is decoded into the caller's
// answer type and returned, while tool-call responses are dispatched in emission
// order and their results appended before the next iteration.
//
// Pipeline: ChatClient (injected transport) → Run loop → Registry (providers
// aggregated under a collision-free namespace) → ToolProvider (local functions or
// MCP-proxied tool servers) → results back into the conversation.
//
// # Key concepts
//
//   - Structured output: any answer type other than string derives a JSON Schema
//     (with $schema and title stripped, since some backends reject them) that is
//     attached to the request; the final text is parsed strictly into that type.
//   - Self-correction: a tool that exists but fails reports its message back into
//     the conversation as the call's result, so the model can react; only unknown
//     tools, transport failures, decode failures, and iteration exhaustion abort
//     the run.
//   - Namespacing: the Registry prefixes every provider's tool names with the
//     provider's ordinal ("0-convert_time"), so independently written providers
//     can never collide; dispatch reverses the prefix.
//
// # Example
//
//	client := openaichat.New("https://api.example.com/v1", apiKey)
//	agent := agentor.New(client, "You are a helpful assistant.")
//
//	provider := agentor.NewProvider()
//	type AddArgs struct{ A, B int }
//	_ = agentor.RegisterTool(provider, "add", "Add two integers",
//	    func(_ context.Context, in AddArgs) (int, error) { return in.A + in.B, nil })
//	reg := agentor.NewRegistry(provider)
//
//	answer, _, err := agentor.Run[string](ctx, agent, "gpt-4o", "What is 2+3?",
//	    agentor.WithRegistry(reg))
//
// History persists across Run calls on the same Agent (multi-turn memory); call
// ClearHistory to start over. A single Agent must not be used for concurrent
// runs; independent Agents are fully isolated and a Registry may be shared
// read-only between them.
package agentor
