// Package user defines accounts, the authenticated actor, and token claims.
package user

import (
	"context"
	"time"
)

// User is a registered account within an organization.
type User struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	PasswordHash   string    `json:"-"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// Actor is the identity every request and tool call acts as. It is derived
// from verified token claims, never from client-supplied fields.
type Actor struct {
	ID             string
	OrganizationID string
	Role           string
}

// TokenClaims is the payload carried by an access token.
type TokenClaims struct {
	Subject        string `json:"sub"`
	OrganizationID string `json:"org"`
	Role           string `json:"role"`
	Issuer         string `json:"iss"`
	Audience       string `json:"aud"`
	ExpiresAt      int64  `json:"exp"`
	IssuedAt       int64  `json:"iat"`
}

// Actor converts verified claims into the request actor.
func (c TokenClaims) Actor() Actor {
	return Actor{ID: c.Subject, OrganizationID: c.OrganizationID, Role: c.Role}
}

// RefreshToken is a persisted, revocable long-lived credential.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type actorKey struct{}

// WithActor stores the authenticated actor in the context.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext returns the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
