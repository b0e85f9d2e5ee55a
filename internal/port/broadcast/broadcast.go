// Package broadcast defines the realtime fan-out port.
package broadcast

import "context"

// Event is a realtime notification pushed to connected clients.
type Event struct {
	Type           string `json:"type"`
	OrganizationID string `json:"-"`
	UserID         string `json:"-"`
	Payload        any    `json:"payload,omitempty"`
}

// Broadcaster pushes events to connected clients. Delivery is best effort;
// implementations drop events for slow or absent consumers.
type Broadcaster interface {
	Broadcast(ctx context.Context, ev Event)
}

// Noop discards all events.
type Noop struct{}

func (Noop) Broadcast(context.Context, Event) {}
