// Package openaichat adapts any OpenAI-compatible chat-completion endpoint to
// the agentor.ChatClient contract. It maps the conversation, tool descriptors,
// and structured-output schema onto the wire format and turns tool_calls back
// into agentor.ToolCall values.
package openaichat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/agentor-ai/agentor"
)

// Client is an agentor.ChatClient backed by an OpenAI-compatible API.
type Client struct {
	api *openai.Client
}

// New creates a Client for an OpenAI-compatible endpoint. baseURL may be empty
// for the default OpenAI endpoint.
func New(baseURL, apiKey string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{api: openai.NewClientWithConfig(cfg)}
}

// NewWithClient wraps a preconfigured go-openai client.
func NewWithClient(api *openai.Client) *Client {
	return &Client{api: api}
}

// Chat sends one request and converts the first choice back into the engine's
// response shape. Reasoning content, when the backend emits it, is carried
// through for the engine to log.
func (c *Client) Chat(ctx context.Context, req agentor.ChatRequest) (*agentor.ChatResponse, error) {
	oreq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: req.Options.Temperature,
		MaxTokens:   req.Options.MaxTokens,
		Messages:    toMessages(req.Messages),
		Tools:       toTools(req.Tools),
	}
	if req.Options.ResponseSchema != nil {
		data, err := json.Marshal(req.Options.ResponseSchema)
		if err != nil {
			return nil, fmt.Errorf("marshal response schema: %w", err)
		}
		name := req.Options.ResponseSchemaName
		if name == "" {
			name = "ResponseFormat"
		}
		oreq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   name,
				Schema: json.RawMessage(data),
			},
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, oreq)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}
	msg := resp.Choices[0].Message

	out := &agentor.ChatResponse{
		Text:      msg.Content,
		Reasoning: msg.ReasoningContent,
	}
	for _, tc := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, agentor.ToolCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: json.RawMessage(tc.Function.Arguments),
		})
	}
	return out, nil
}

func toMessages(history []agentor.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case agentor.RoleSystem:
			out = append(out, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleSystem,
				Content: m.Text,
			})
		case agentor.RoleUser:
			out = append(out, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: m.Text,
			})
		case agentor.RoleAssistant:
			om := openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: m.Text,
			}
			for _, call := range m.ToolCalls {
				om.ToolCalls = append(om.ToolCalls, openai.ToolCall{
					ID:   call.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      call.Name,
						Arguments: string(call.Args),
					},
				})
			}
			out = append(out, om)
		case agentor.RoleTool:
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    m.Text,
				ToolCallID: m.CallID,
			})
		}
	}
	return out
}

func toTools(descriptors []agentor.ToolDescriptor) []openai.Tool {
	if len(descriptors) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.Schema,
			},
		})
	}
	return out
}

var _ agentor.ChatClient = (*Client)(nil)
