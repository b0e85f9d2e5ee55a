// Package pulse defines the domain model for the Pulse conversational
// assistant: messages, conversations, tool requests, and the title heuristic.
package pulse

import "encoding/json"

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleTool marks a tool-execution result fed back into history.
	RoleTool Role = "tool"
)

// Message is the canonical representation of one conversational turn entry.
// Content is never null; the empty string is the canonical "no content" value.
// Messages are append-only: once recorded in a conversation they are never
// mutated.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// ToolCalls is set on assistant messages that record the raw tool
	// requests issued by the model during a tool round.
	ToolCalls []ToolRequest `json:"tool_calls,omitempty"`

	// ToolCallID and ToolName correlate a tool-role message with the
	// request that produced it.
	ToolCallID string `json:"tool_call_id,omitempty"`
	ToolName   string `json:"tool_name,omitempty"`
}

// ToolRequest is a single tool invocation requested by the language model.
type ToolRequest struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input,omitempty"`
}

// ToolResult is the settled outcome of one tool request. Exactly one of
// Output and Error is populated.
type ToolResult struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Output any    `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Message converts the result into a canonical tool-role message whose
// content is the JSON-encoded {output}|{error} union.
func (r ToolResult) Message() Message {
	type payload struct {
		Output any    `json:"output,omitempty"`
		Error  string `json:"error,omitempty"`
	}
	data, err := json.Marshal(payload{Output: r.Output, Error: r.Error})
	if err != nil {
		data = []byte(`{"error":"tool result could not be encoded"}`)
	}
	return Message{
		Role:       RoleTool,
		Content:    string(data),
		ToolCallID: r.ID,
		ToolName:   r.Name,
	}
}

// ClientMessage is the simplified {role, content} shape clients may submit.
// An absent content field decodes to the empty string.
type ClientMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NormalizeHistory converts client-supplied turns into canonical messages.
// Any role synonymous with model output ("assistant", "model") normalizes to
// RoleAssistant; everything else defaults to RoleUser. Order is preserved and
// empty messages are kept: an empty message is still a valid turn marker.
func NormalizeHistory(in []ClientMessage) []Message {
	out := make([]Message, 0, len(in))
	for _, m := range in {
		role := RoleUser
		if m.Role == "assistant" || m.Role == "model" {
			role = RoleAssistant
		}
		out = append(out, Message{Role: role, Content: m.Content})
	}
	return out
}
