package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/qorohq/qoro/internal/domain/crm"
	"github.com/qorohq/qoro/internal/domain/finance"
	"github.com/qorohq/qoro/internal/domain/supplier"
	"github.com/qorohq/qoro/internal/domain/task"
)

func (s *Store) ListCustomers(ctx context.Context, orgID string) ([]crm.Customer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, organization_id, name, COALESCE(email, ''), COALESCE(phone, ''), status, created_at
		 FROM customers WHERE organization_id = $1 ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var result []crm.Customer
	for rows.Next() {
		var c crm.Customer
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.Email, &c.Phone, &c.Status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *Store) CRMSummary(ctx context.Context, orgID string) (*crm.Summary, error) {
	var sum crm.Summary
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE status = 'active'),
		        COUNT(*) FILTER (WHERE status = 'lead'),
		        COUNT(*) FILTER (WHERE created_at >= date_trunc('month', NOW()))
		 FROM customers WHERE organization_id = $1`, orgID,
	).Scan(&sum.TotalCustomers, &sum.ActiveCount, &sum.LeadCount, &sum.NewThisMonth)
	if err != nil {
		return nil, fmt.Errorf("crm summary: %w", err)
	}
	return &sum, nil
}

func (s *Store) ListTasks(ctx context.Context, orgID string) ([]task.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, organization_id, created_by, title, COALESCE(description, ''), status, due_date, created_at
		 FROM tasks WHERE organization_id = $1 ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var result []task.Task
	for rows.Next() {
		var t task.Task
		if err := rows.Scan(&t.ID, &t.OrganizationID, &t.CreatedBy, &t.Title, &t.Description, &t.Status, &t.DueDate, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (s *Store) CreateTask(ctx context.Context, orgID, createdBy string, in task.NewTaskInput) (*task.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t := task.Task{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		CreatedBy:      createdBy,
		Title:          in.Title,
		Description:    in.Description,
		Status:         task.StatusPending,
		DueDate:        in.DueDate,
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO tasks (id, organization_id, created_by, title, description, status, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		t.ID, t.OrganizationID, t.CreatedBy, t.Title, t.Description, t.Status, t.DueDate,
	).Scan(&t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &t, nil
}

func (s *Store) ListAccounts(ctx context.Context, orgID string) ([]finance.Account, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, organization_id, name, kind, balance_cents, currency, created_at
		 FROM accounts WHERE organization_id = $1 ORDER BY name ASC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var result []finance.Account
	for rows.Next() {
		var a finance.Account
		if err := rows.Scan(&a.ID, &a.OrganizationID, &a.Name, &a.Kind, &a.BalanceCents, &a.Currency, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (s *Store) FinanceSummary(ctx context.Context, orgID string) (*finance.Summary, error) {
	var sum finance.Summary
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(balance_cents), 0),
		        COUNT(*),
		        COALESCE(SUM(balance_cents) FILTER (WHERE balance_cents < 0), 0) * -1,
		        COALESCE(SUM(balance_cents) FILTER (WHERE balance_cents > 0), 0)
		 FROM accounts WHERE organization_id = $1`, orgID,
	).Scan(&sum.TotalBalanceCents, &sum.AccountCount, &sum.PayableCents, &sum.ReceivableCents)
	if err != nil {
		return nil, fmt.Errorf("finance summary: %w", err)
	}
	return &sum, nil
}

func (s *Store) ListSuppliers(ctx context.Context, orgID string) ([]supplier.Supplier, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, organization_id, name, COALESCE(contact_email, ''), COALESCE(contact_phone, ''), COALESCE(payment_terms, ''), created_at
		 FROM suppliers WHERE organization_id = $1 ORDER BY name ASC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var result []supplier.Supplier
	for rows.Next() {
		var sp supplier.Supplier
		if err := rows.Scan(&sp.ID, &sp.OrganizationID, &sp.Name, &sp.ContactEmail, &sp.ContactPhone, &sp.PaymentTerms, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		result = append(result, sp)
	}
	return result, rows.Err()
}
