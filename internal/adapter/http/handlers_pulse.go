package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qorohq/qoro/internal/domain/pulse"
	"github.com/qorohq/qoro/internal/domain/user"
)

func (h *Handlers) actor(w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	actor, ok := user.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
	}
	return actor, ok
}

// Ask handles POST /api/v1/pulse/ask. It runs a full assistant turn and
// responds only after the turn is persisted.
func (h *Handlers) Ask(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	req, ok := readJSON[pulse.AskRequest](w, r)
	if !ok {
		return
	}

	resp, err := h.Pulse.Ask(r.Context(), actor, req)
	if err != nil {
		writeDomainError(w, err, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListConversations handles GET /api/v1/pulse/conversations.
func (h *Handlers) ListConversations(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	summaries, err := h.Pulse.Conversations(r.Context(), actor)
	if err != nil {
		writeDomainError(w, err, "list conversations")
		return
	}
	if summaries == nil {
		summaries = []pulse.ConversationSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

// GetConversation handles GET /api/v1/pulse/conversations/{id}.
func (h *Handlers) GetConversation(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	conv, err := h.Pulse.Conversation(r.Context(), actor, id)
	if err != nil {
		writeDomainError(w, err, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// DeleteConversation handles DELETE /api/v1/pulse/conversations/{id}.
func (h *Handlers) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.Pulse.DeleteConversation(r.Context(), actor, id); err != nil {
		writeDomainError(w, err, "conversation not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
