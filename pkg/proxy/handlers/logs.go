package handlers

import (
	"net/http"
	"strconv"

	"github.com/TociNwaoha/IQBandit/pkg/auditlog"
	"github.com/TociNwaoha/IQBandit/pkg/proxy"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

// LogsHandler serves the recent audit entries to the admin surface.
type LogsHandler struct {
	audit *auditlog.Logger
}

// NewLogsHandler wires the logs endpoint.
func NewLogsHandler(audit *auditlog.Logger) *LogsHandler {
	return &LogsHandler{audit: audit}
}

// ServeHTTP handles GET /api/logs?limit=N.
func (h *LogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			proxy.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}

	proxy.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"logs": h.audit.ReadRecent(limit),
	})
}
