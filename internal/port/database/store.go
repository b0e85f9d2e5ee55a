// Package database defines the persistence port.
package database

import (
	"context"

	"github.com/qorohq/qoro/internal/domain/crm"
	"github.com/qorohq/qoro/internal/domain/finance"
	"github.com/qorohq/qoro/internal/domain/pulse"
	"github.com/qorohq/qoro/internal/domain/supplier"
	"github.com/qorohq/qoro/internal/domain/task"
	"github.com/qorohq/qoro/internal/domain/user"
)

// Store is the persistence boundary. Implementations enforce organization
// scoping: every read and write is constrained to the given actor's
// organization, and conversation access additionally to its owner.
type Store interface {
	ConversationStore
	BusinessStore
	UserStore

	// Ping reports whether the backing database is reachable.
	Ping(ctx context.Context) error
	// Close releases the connection pool.
	Close()
}

// ConversationStore persists Pulse conversations.
type ConversationStore interface {
	CreateConversation(ctx context.Context, c *pulse.Conversation) error
	// GetConversation returns ErrNotFound when the conversation does not
	// exist or is not visible to the actor. The two cases are
	// indistinguishable to callers.
	GetConversation(ctx context.Context, id string, actor user.Actor) (*pulse.Conversation, error)
	// UpdateConversation applies upd when upd.Version matches the stored
	// version, returning ErrConflict otherwise.
	UpdateConversation(ctx context.Context, id string, actor user.Actor, upd pulse.ConversationUpdate) error
	ListConversations(ctx context.Context, actor user.Actor) ([]pulse.ConversationSummary, error)
	DeleteConversation(ctx context.Context, id string, actor user.Actor) error
}

// BusinessStore exposes the business data the assistant's tools read.
type BusinessStore interface {
	ListCustomers(ctx context.Context, orgID string) ([]crm.Customer, error)
	CRMSummary(ctx context.Context, orgID string) (*crm.Summary, error)
	ListTasks(ctx context.Context, orgID string) ([]task.Task, error)
	CreateTask(ctx context.Context, orgID, createdBy string, in task.NewTaskInput) (*task.Task, error)
	ListAccounts(ctx context.Context, orgID string) ([]finance.Account, error)
	FinanceSummary(ctx context.Context, orgID string) (*finance.Summary, error)
	ListSuppliers(ctx context.Context, orgID string) ([]supplier.Supplier, error)
}

// UserStore manages accounts and refresh tokens.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	GetUser(ctx context.Context, id string) (*user.User, error)
	CreateUser(ctx context.Context, u *user.User) error
	ListUsers(ctx context.Context, orgID string) ([]user.User, error)
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error
	SaveRefreshToken(ctx context.Context, t user.RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*user.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteUserRefreshTokens(ctx context.Context, userID string) error
}
