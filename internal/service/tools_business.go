package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/qorohq/qoro/internal/domain/task"
	"github.com/qorohq/qoro/internal/port/cache"
	"github.com/qorohq/qoro/internal/port/database"
)

// emptyObjectSchema is the parameter schema for tools that take no input.
func emptyObjectSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

// BusinessTools builds the built-in tool set over the business store. The
// cache, when present, serves repeated read-only lookups within ttl.
func BusinessTools(store database.BusinessStore, c cache.Cache, ttl time.Duration) []Tool {
	return []Tool{
		&listCustomersTool{store: store, cache: c, ttl: ttl},
		&crmSummaryTool{store: store, cache: c, ttl: ttl},
		&listTasksTool{store: store},
		&createTaskTool{store: store},
		&listAccountsTool{store: store, cache: c, ttl: ttl},
		&financeSummaryTool{store: store, cache: c, ttl: ttl},
		&listSuppliersTool{store: store, cache: c, ttl: ttl},
	}
}

type listCustomersTool struct {
	store database.BusinessStore
	cache cache.Cache
	ttl   time.Duration
}

func (t *listCustomersTool) Name() string { return "list_customers" }
func (t *listCustomersTool) Description() string {
	return "Lists all customers for the organization. Use this to answer questions about customer counts, customer details, or to get a general overview of the customer base."
}
func (t *listCustomersTool) Parameters() map[string]any { return emptyObjectSchema() }

func (t *listCustomersTool) Call(ctx context.Context, _ json.RawMessage) (any, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	return cachedCall(ctx, t.cache, t.ttl, actor.OrganizationID, t.Name(), func() (any, error) {
		return t.store.ListCustomers(ctx, actor.OrganizationID)
	})
}

type crmSummaryTool struct {
	store database.BusinessStore
	cache cache.Cache
	ttl   time.Duration
}

func (t *crmSummaryTool) Name() string { return "get_crm_summary" }
func (t *crmSummaryTool) Description() string {
	return "Returns an aggregate summary of the customer base: total customers, active customers, leads, and customers added this month."
}
func (t *crmSummaryTool) Parameters() map[string]any { return emptyObjectSchema() }

func (t *crmSummaryTool) Call(ctx context.Context, _ json.RawMessage) (any, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	return cachedCall(ctx, t.cache, t.ttl, actor.OrganizationID, t.Name(), func() (any, error) {
		return t.store.CRMSummary(ctx, actor.OrganizationID)
	})
}

type listTasksTool struct {
	store database.BusinessStore
}

func (t *listTasksTool) Name() string { return "list_tasks" }
func (t *listTasksTool) Description() string {
	return "Lists all tasks for the organization, including their status and due dates."
}
func (t *listTasksTool) Parameters() map[string]any { return emptyObjectSchema() }

func (t *listTasksTool) Call(ctx context.Context, _ json.RawMessage) (any, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	return t.store.ListTasks(ctx, actor.OrganizationID)
}

type createTaskTool struct {
	store database.BusinessStore
}

func (t *createTaskTool) Name() string { return "create_task" }
func (t *createTaskTool) Description() string {
	return "Creates a new task for the organization. Requires a title; description and due date are optional."
}

func (t *createTaskTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string", "description": "Short title of the task"},
			"description": map[string]any{"type": "string", "description": "Longer description of the task"},
			"due_date":    map[string]any{"type": "string", "format": "date-time", "description": "Optional due date in RFC 3339 format"},
		},
		"required": []string{"title"},
	}
}

func (t *createTaskTool) Call(ctx context.Context, input json.RawMessage) (any, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	var in task.NewTaskInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("decode task input: %w", err)
	}
	return t.store.CreateTask(ctx, actor.OrganizationID, actor.ID, in)
}

type listAccountsTool struct {
	store database.BusinessStore
	cache cache.Cache
	ttl   time.Duration
}

func (t *listAccountsTool) Name() string { return "list_accounts" }
func (t *listAccountsTool) Description() string {
	return "Lists all financial accounts for the organization, such as checking accounts, savings, credit cards, and cash. Use this to answer questions about bank accounts or current balances."
}
func (t *listAccountsTool) Parameters() map[string]any { return emptyObjectSchema() }

func (t *listAccountsTool) Call(ctx context.Context, _ json.RawMessage) (any, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	return cachedCall(ctx, t.cache, t.ttl, actor.OrganizationID, t.Name(), func() (any, error) {
		return t.store.ListAccounts(ctx, actor.OrganizationID)
	})
}

type financeSummaryTool struct {
	store database.BusinessStore
	cache cache.Cache
	ttl   time.Duration
}

func (t *financeSummaryTool) Name() string { return "get_finance_summary" }
func (t *financeSummaryTool) Description() string {
	return "Returns an aggregate financial summary: total balance, account count, payables, and receivables."
}
func (t *financeSummaryTool) Parameters() map[string]any { return emptyObjectSchema() }

func (t *financeSummaryTool) Call(ctx context.Context, _ json.RawMessage) (any, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	return cachedCall(ctx, t.cache, t.ttl, actor.OrganizationID, t.Name(), func() (any, error) {
		return t.store.FinanceSummary(ctx, actor.OrganizationID)
	})
}

type listSuppliersTool struct {
	store database.BusinessStore
	cache cache.Cache
	ttl   time.Duration
}

func (t *listSuppliersTool) Name() string { return "list_suppliers" }
func (t *listSuppliersTool) Description() string {
	return "Lists all suppliers for the organization. Use this to answer questions about suppliers, their contact information, or payment terms."
}
func (t *listSuppliersTool) Parameters() map[string]any { return emptyObjectSchema() }

func (t *listSuppliersTool) Call(ctx context.Context, _ json.RawMessage) (any, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	return cachedCall(ctx, t.cache, t.ttl, actor.OrganizationID, t.Name(), func() (any, error) {
		return t.store.ListSuppliers(ctx, actor.OrganizationID)
	})
}
