// Package llm defines the language-model port.
package llm

import (
	"context"

	"github.com/qorohq/qoro/internal/domain/pulse"
)

// ToolDef describes one callable tool in the manifest handed to the model.
type ToolDef struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Request is one generation call: the fixed system instruction, the full
// canonical history, and the tool manifest.
type Request struct {
	System  string
	History []pulse.Message
	Tools   []ToolDef
}

// Result is the model's reply. Either Answer is non-empty, ToolRequests is
// non-empty, or both; a result with neither is an adapter error.
type Result struct {
	Answer         string
	SuggestedTitle string
	ToolRequests   []pulse.ToolRequest
}

// Generator produces one model turn. Implementations map the canonical
// message shapes onto their provider's wire format.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}
