// Package supplier defines vendor records.
package supplier

import "time"

// Supplier is a vendor the organization buys from.
type Supplier struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	ContactEmail   string    `json:"contact_email,omitempty"`
	ContactPhone   string    `json:"contact_phone,omitempty"`
	PaymentTerms   string    `json:"payment_terms,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
