package openai

import (
	"encoding/json"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/qorohq/qoro/internal/domain/pulse"
	"github.com/qorohq/qoro/internal/port/llm"
)

func TestToWireMessages(t *testing.T) {
	req := llm.Request{
		System: "instrução do sistema",
		History: []pulse.Message{
			{Role: pulse.RoleUser, Content: "quantos clientes temos?"},
			{Role: pulse.RoleAssistant, ToolCalls: []pulse.ToolRequest{
				{ID: "call_1", Name: "get_crm_summary", Input: json.RawMessage(`{}`)},
			}},
			{Role: pulse.RoleTool, Content: `{"output":{"total_customers":42}}`, ToolCallID: "call_1", ToolName: "get_crm_summary"},
		},
	}

	wire := toWireMessages(req)
	if len(wire) != 4 {
		t.Fatalf("expected 4 wire messages, got %d", len(wire))
	}
	if wire[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("first message role = %s, want system", wire[0].Role)
	}
	if wire[1].Role != openai.ChatMessageRoleUser {
		t.Errorf("second message role = %s, want user", wire[1].Role)
	}
	if wire[2].Role != openai.ChatMessageRoleAssistant || len(wire[2].ToolCalls) != 1 {
		t.Errorf("third message should be assistant with one tool call, got %+v", wire[2])
	}
	if wire[2].ToolCalls[0].Function.Name != "get_crm_summary" {
		t.Errorf("tool call name = %s, want get_crm_summary", wire[2].ToolCalls[0].Function.Name)
	}
	if wire[3].Role != openai.ChatMessageRoleTool || wire[3].ToolCallID != "call_1" {
		t.Errorf("fourth message should be tool with call id, got %+v", wire[3])
	}
}

func TestFromWireChoice_StructuredReply(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Content: `{"response":"Você tem 42 clientes.","title":"Contagem de clientes"}`,
	}
	res, err := fromWireChoice(msg)
	if err != nil {
		t.Fatal(err)
	}
	if res.Answer != "Você tem 42 clientes." {
		t.Errorf("answer = %q", res.Answer)
	}
	if res.SuggestedTitle != "Contagem de clientes" {
		t.Errorf("title = %q", res.SuggestedTitle)
	}
}

func TestFromWireChoice_RawContentFallback(t *testing.T) {
	msg := openai.ChatCompletionMessage{Content: "resposta em texto puro"}
	res, err := fromWireChoice(msg)
	if err != nil {
		t.Fatal(err)
	}
	if res.Answer != "resposta em texto puro" {
		t.Errorf("answer = %q", res.Answer)
	}
	if res.SuggestedTitle != "" {
		t.Errorf("unexpected title %q", res.SuggestedTitle)
	}
}

func TestFromWireChoice_ToolRequests(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		ToolCalls: []openai.ToolCall{
			{ID: "call_1", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "list_tasks", Arguments: "{}"}},
			{ID: "call_2", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "list_suppliers"}},
		},
	}
	res, err := fromWireChoice(msg)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.ToolRequests) != 2 {
		t.Fatalf("expected 2 tool requests, got %d", len(res.ToolRequests))
	}
	if res.ToolRequests[0].Name != "list_tasks" || res.ToolRequests[1].Name != "list_suppliers" {
		t.Errorf("tool request order not preserved: %+v", res.ToolRequests)
	}
	if string(res.ToolRequests[1].Input) != "{}" {
		t.Errorf("empty arguments should default to {}, got %s", res.ToolRequests[1].Input)
	}
}

func TestFromWireChoice_EmptyReply(t *testing.T) {
	if _, err := fromWireChoice(openai.ChatCompletionMessage{}); err == nil {
		t.Fatal("expected error for reply with neither answer nor tool requests")
	}
}
