package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/qorohq/qoro/internal/middleware"
	"github.com/qorohq/qoro/internal/port/messagequeue"
)

// MountRoutes registers all API routes on the given chi router. The router
// passed in is expected to already carry the global middleware chain; the
// idempotency KV is applied only to the turn endpoint, where a client retry
// must not start a second turn.
func MountRoutes(r chi.Router, h *Handlers, idempotencyKV messagequeue.KV) {
	r.Route("/api/v1", func(r chi.Router) {
		// Auth
		r.Post("/auth/login", h.Login)
		r.Post("/auth/register", h.Register)
		r.Post("/auth/refresh", h.Refresh)
		r.Post("/auth/logout", h.Logout)

		// Pulse
		r.Route("/pulse", func(r chi.Router) {
			if idempotencyKV != nil {
				r.With(middleware.Idempotency(idempotencyKV)).Post("/ask", h.Ask)
			} else {
				r.Post("/ask", h.Ask)
			}
			r.Get("/conversations", h.ListConversations)
			r.Get("/conversations/{id}", h.GetConversation)
			r.Delete("/conversations/{id}", h.DeleteConversation)
		})
	})
}
