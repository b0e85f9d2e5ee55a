// Package service contains the application use cases: the Pulse orchestrator,
// the business tool registry, and authentication.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/qorohq/qoro/internal/adapter/otel"
	"github.com/qorohq/qoro/internal/domain"
	"github.com/qorohq/qoro/internal/domain/pulse"
	"github.com/qorohq/qoro/internal/domain/user"
	"github.com/qorohq/qoro/internal/port/cache"
	"github.com/qorohq/qoro/internal/port/llm"
)

// Tool is one capability the assistant can invoke during a turn. Parameters
// returns the JSON schema of the tool's input object.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Call(ctx context.Context, input json.RawMessage) (any, error)
}

// ToolRegistry holds the tools available to the assistant. It is assembled
// once at startup and read-only afterwards.
type ToolRegistry struct {
	tools       map[string]Tool
	toolTimeout time.Duration
}

// NewToolRegistry builds a registry from the given tools.
func NewToolRegistry(toolTimeout time.Duration, tools ...Tool) *ToolRegistry {
	m := make(map[string]Tool, len(tools))
	for _, t := range tools {
		m[t.Name()] = t
	}
	return &ToolRegistry{tools: m, toolTimeout: toolTimeout}
}

// Defs returns the tool manifest handed to the language model, in stable
// name order.
func (r *ToolRegistry) Defs() []llm.ToolDef {
	defs := make([]llm.ToolDef, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, llm.ToolDef{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Execute runs all requested tools concurrently and returns their results in
// request order. A failing tool is recorded in its slot and never cancels its
// siblings; an unknown tool name likewise becomes an error result.
func (r *ToolRegistry) Execute(ctx context.Context, reqs []pulse.ToolRequest) []pulse.ToolResult {
	results := make([]pulse.ToolResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		g.Go(func() error {
			results[i] = r.runOne(gctx, req)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *ToolRegistry) runOne(ctx context.Context, req pulse.ToolRequest) pulse.ToolResult {
	res := pulse.ToolResult{ID: req.ID, Name: req.Name}

	ctx, span := otel.StartToolCallSpan(ctx, req.ID, req.Name)
	defer span.End()

	t, ok := r.tools[req.Name]
	if !ok {
		res.Error = fmt.Sprintf("unknown tool %q", req.Name)
		return res
	}

	callCtx := ctx
	if r.toolTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.toolTimeout)
		defer cancel()
	}

	out, err := t.Call(callCtx, req.Input)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Output = out
	return res
}

// requireActor extracts the authenticated actor from ctx. Every tool call
// refuses to run without one.
func requireActor(ctx context.Context) (user.Actor, error) {
	actor, ok := user.ActorFromContext(ctx)
	if !ok || actor.ID == "" || actor.OrganizationID == "" {
		return user.Actor{}, fmt.Errorf("tool call without actor: %w", domain.ErrUnauthorized)
	}
	return actor, nil
}

// cachedCall serves read-only tool output from the in-process cache, scoped
// by organization and tool name.
func cachedCall(ctx context.Context, c cache.Cache, ttl time.Duration, orgID, tool string, fetch func() (any, error)) (any, error) {
	if c == nil || ttl <= 0 {
		return fetch()
	}

	key := "tool:" + orgID + ":" + tool
	if data, ok := c.Get(key); ok {
		var out any
		if err := json.Unmarshal(data, &out); err == nil {
			return out, nil
		}
	}

	out, err := fetch()
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(out); err == nil {
		c.Set(key, data, ttl)
	}
	return out, nil
}
