// Package finance defines financial accounts and the aggregate summary the
// assistant reports on.
package finance

import "time"

// Account kinds.
const (
	KindChecking   = "checking"
	KindSavings    = "savings"
	KindCreditCard = "credit_card"
	KindCash       = "cash"
)

// Account is a financial account held by an organization. Balances are stored
// in cents to avoid floating-point drift.
type Account struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Kind           string    `json:"kind"`
	BalanceCents   int64     `json:"balance_cents"`
	Currency       string    `json:"currency"`
	CreatedAt      time.Time `json:"created_at"`
}

// Summary aggregates the organization's financial position.
type Summary struct {
	TotalBalanceCents int64 `json:"total_balance_cents"`
	AccountCount      int   `json:"account_count"`
	PayableCents      int64 `json:"payable_cents"`
	ReceivableCents   int64 `json:"receivable_cents"`
}
