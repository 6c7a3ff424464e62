package handlers

import (
	"net/http"
	"time"

	"github.com/TociNwaoha/IQBandit/pkg/gateway"
	"github.com/TociNwaoha/IQBandit/pkg/proxy"
)

// HealthHandler serves the proxy's own liveness endpoint and the upstream
// reachability probe backing the admin "test connection" action.
type HealthHandler struct {
	client    *gateway.Client
	version   string
	startTime time.Time
}

// NewHealthHandler wires the health endpoints.
func NewHealthHandler(client *gateway.Client, version string) *HealthHandler {
	return &HealthHandler{
		client:    client,
		version:   version,
		startTime: time.Now(),
	}
}

// Liveness handles GET /health.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	proxy.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	})
}

// GatewayHealth handles GET /api/gateway/health.
func (h *HealthHandler) GatewayHealth(w http.ResponseWriter, r *http.Request) {
	proxy.WriteJSON(w, http.StatusOK, h.client.CheckHealth(r.Context()))
}
