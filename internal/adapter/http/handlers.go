package http

import (
	"context"
	"net/http"
	"time"

	"github.com/qorohq/qoro/internal/adapter/ws"
	"github.com/qorohq/qoro/internal/port/database"
	"github.com/qorohq/qoro/internal/resilience"
	"github.com/qorohq/qoro/internal/service"
)

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Pulse   *service.PulseService
	Auth    *service.AuthService
	Store   database.Store
	Breaker *resilience.Breaker
	Hub     *ws.Hub
}

type healthResponse struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	ModelBreaker  string `json:"model_breaker"`
	WSConnections int    `json:"ws_connections"`
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "ok"}
	status := http.StatusOK
	if err := h.Store.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}
	if h.Breaker != nil {
		resp.ModelBreaker = h.Breaker.State()
	}
	if h.Hub != nil {
		resp.WSConnections = h.Hub.ConnectionCount()
	}
	writeJSON(w, status, resp)
}
