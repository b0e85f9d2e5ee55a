// Package crm defines customer records and the aggregate summary the
// assistant reports on.
package crm

import "time"

// Status values a customer moves through.
const (
	StatusLead     = "lead"
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Customer is a CRM contact belonging to one organization.
type Customer struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// Summary aggregates the customer base for assistant answers.
type Summary struct {
	TotalCustomers int `json:"total_customers"`
	ActiveCount    int `json:"active_count"`
	LeadCount      int `json:"lead_count"`
	NewThisMonth   int `json:"new_this_month"`
}
