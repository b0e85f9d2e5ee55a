// Package openai implements the llm.Generator port against any
// OpenAI-compatible chat completion API.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/qorohq/qoro/internal/config"
	"github.com/qorohq/qoro/internal/domain/pulse"
	"github.com/qorohq/qoro/internal/port/llm"
)

// Generator calls an OpenAI-compatible chat API and maps the canonical
// message shapes onto its wire format.
type Generator struct {
	client     *openai.Client
	model      string
	maxRetries int
}

// NewGenerator creates a Generator from the given config.
func NewGenerator(cfg config.OpenAI) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	retries := cfg.MaxRetries
	if retries < 1 {
		retries = 1
	}

	return &Generator{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.ChatModel,
		maxRetries: retries,
	}
}

// replySchema constrains the final answer to a {response, title} object so
// the orchestrator can extract a suggested title alongside the answer.
var replySchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"response": {"type": "string"},
		"title": {"type": "string"}
	},
	"required": ["response"],
	"additionalProperties": false
}`)

type structuredReply struct {
	Response string `json:"response"`
	Title    string `json:"title"`
}

// Generate performs one chat completion. The model may answer, request tools,
// or both; a completion with neither is an error.
func (g *Generator) Generate(ctx context.Context, req llm.Request) (*llm.Result, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:    g.model,
		Messages: toWireMessages(req),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "pulse_reply",
				Schema: replySchema,
			},
		},
	}
	for _, t := range req.Tools {
		chatReq.Tools = append(chatReq.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	var resp openai.ChatCompletionResponse
	err := g.doWithRetry(ctx, func() error {
		var callErr error
		resp, callErr = g.client.CreateChatCompletion(ctx, chatReq)
		if callErr != nil {
			return callErr
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty chat response")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	return fromWireChoice(resp.Choices[0].Message)
}

// toWireMessages maps the canonical system prompt and history onto OpenAI
// chat messages.
func toWireMessages(req llm.Request) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(req.History)+1)
	if req.System != "" {
		out = append(out, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.History {
		wm := openai.ChatCompletionMessage{Content: m.Content}
		switch m.Role {
		case pulse.RoleAssistant:
			wm.Role = openai.ChatMessageRoleAssistant
			for _, tc := range m.ToolCalls {
				wm.ToolCalls = append(wm.ToolCalls, openai.ToolCall{
					ID:   tc.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      tc.Name,
						Arguments: string(tc.Input),
					},
				})
			}
		case pulse.RoleTool:
			wm.Role = openai.ChatMessageRoleTool
			wm.ToolCallID = m.ToolCallID
		default:
			wm.Role = openai.ChatMessageRoleUser
		}
		out = append(out, wm)
	}
	return out
}

// fromWireChoice maps the model's reply back into the canonical result.
// Content that fails to parse as the structured reply is used verbatim.
func fromWireChoice(msg openai.ChatCompletionMessage) (*llm.Result, error) {
	res := &llm.Result{}

	for _, tc := range msg.ToolCalls {
		if tc.Type != openai.ToolTypeFunction {
			continue
		}
		input := json.RawMessage(tc.Function.Arguments)
		if len(input) == 0 {
			input = json.RawMessage(`{}`)
		}
		res.ToolRequests = append(res.ToolRequests, pulse.ToolRequest{
			ID:    tc.ID,
			Name:  tc.Function.Name,
			Input: input,
		})
	}

	content := strings.TrimSpace(msg.Content)
	if content != "" {
		var reply structuredReply
		if err := json.Unmarshal([]byte(content), &reply); err == nil && reply.Response != "" {
			res.Answer = reply.Response
			res.SuggestedTitle = reply.Title
		} else {
			res.Answer = content
		}
	}

	if res.Answer == "" && len(res.ToolRequests) == 0 {
		return nil, fmt.Errorf("model returned neither answer nor tool requests")
	}
	return res, nil
}

// doWithRetry executes fn with exponential backoff.
func (g *Generator) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			if attempt < g.maxRetries-1 {
				wait := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				select {
				case <-time.After(wait):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return lastErr
}
