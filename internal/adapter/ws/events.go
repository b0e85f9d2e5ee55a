package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/qorohq/qoro/internal/port/broadcast"
)

// Broadcast implements broadcast.Broadcaster: the event payload is marshalled
// once and delivered to every connection of the targeted user/organization.
// Event types and payload shapes are owned by the publisher; the hub treats
// them as opaque.
func (h *Hub) Broadcast(ctx context.Context, ev broadcast.Event) {
	data, err := json.Marshal(ev.Payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", ev.Type, "error", err)
		return
	}

	h.send(ctx, ev.UserID, ev.OrganizationID, Message{
		Type:    ev.Type,
		Payload: json.RawMessage(data),
	})
}
