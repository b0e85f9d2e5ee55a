package pulse

import (
	"encoding/json"
	"testing"
)

func TestNormalizeHistory(t *testing.T) {
	in := []ClientMessage{
		{Role: "user", Content: "oi"},
		{Role: "assistant", Content: "olá"},
		{Role: "model", Content: "tudo bem?"},
		{Role: "system", Content: "ignored role"},
		{Role: "", Content: ""},
	}
	got := NormalizeHistory(in)
	if len(got) != len(in) {
		t.Fatalf("got %d messages, want %d", len(got), len(in))
	}
	wantRoles := []Role{RoleUser, RoleAssistant, RoleAssistant, RoleUser, RoleUser}
	for i, m := range got {
		if m.Role != wantRoles[i] {
			t.Errorf("message %d: role = %q, want %q", i, m.Role, wantRoles[i])
		}
		if m.Content != in[i].Content {
			t.Errorf("message %d: content = %q, want %q", i, m.Content, in[i].Content)
		}
	}
}

func TestToolResultMessage(t *testing.T) {
	ok := ToolResult{ID: "call_1", Name: "list_tasks", Output: map[string]any{"count": 2}}
	msg := ok.Message()
	if msg.Role != RoleTool || msg.ToolCallID != "call_1" || msg.ToolName != "list_tasks" {
		t.Fatalf("unexpected envelope: %+v", msg)
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(msg.Content), &payload); err != nil {
		t.Fatalf("content is not JSON: %v", err)
	}
	if _, has := payload["output"]; !has {
		t.Errorf("success payload missing output key: %s", msg.Content)
	}
	if _, has := payload["error"]; has {
		t.Errorf("success payload carries error key: %s", msg.Content)
	}

	failed := ToolResult{ID: "call_2", Name: "get_crm_summary", Error: "database unavailable"}
	msg = failed.Message()
	payload = nil
	if err := json.Unmarshal([]byte(msg.Content), &payload); err != nil {
		t.Fatalf("content is not JSON: %v", err)
	}
	if _, has := payload["error"]; !has {
		t.Errorf("failure payload missing error key: %s", msg.Content)
	}
	if _, has := payload["output"]; has {
		t.Errorf("failure payload carries output key: %s", msg.Content)
	}
}
