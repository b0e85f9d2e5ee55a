// Package task defines organization to-do items.
package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/qorohq/qoro/internal/domain"
)

// Task statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Task is a unit of work tracked for an organization.
type Task struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	CreatedBy      string     `json:"created_by"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         string     `json:"status"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewTaskInput is the payload accepted when creating a task.
type NewTaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Validate rejects inputs that cannot become a task.
func (in NewTaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: task title is required", domain.ErrValidation)
	}
	return nil
}
