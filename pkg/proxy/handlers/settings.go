package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/TociNwaoha/IQBandit/pkg/proxy"
	"github.com/TociNwaoha/IQBandit/pkg/settings"
)

// SettingsHandler serves the gateway configuration surface.
type SettingsHandler struct {
	store  *settings.Store
	logger *slog.Logger
}

// NewSettingsHandler wires the settings endpoints.
func NewSettingsHandler(store *settings.Store) *SettingsHandler {
	return &SettingsHandler{
		store:  store,
		logger: slog.Default().With("component", "settings-handler"),
	}
}

// Get handles GET /api/settings. The token is masked; its value never
// leaves the server once stored.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	eff, err := h.store.Get()
	if err != nil {
		h.logger.Error("settings read failed", "error", err)
		proxy.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to read settings"})
		return
	}
	proxy.WriteJSON(w, http.StatusOK, eff.Masked())
}

// Put handles PUT /api/settings.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var patch settings.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		proxy.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Request body is not valid JSON"})
		return
	}

	if patch.ChatMode != nil && *patch.ChatMode != "" {
		if *patch.ChatMode != "openclaw" && *patch.ChatMode != "disabled" {
			proxy.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "chat_mode must be 'openclaw' or 'disabled'"})
			return
		}
	}

	if err := h.store.Save(patch); err != nil {
		h.logger.Error("settings save failed", "error", err)
		proxy.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save settings"})
		return
	}

	eff, err := h.store.Get()
	if err != nil {
		h.logger.Error("settings re-read failed", "error", err)
		proxy.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to read settings"})
		return
	}
	h.logger.Info("settings updated")
	proxy.WriteJSON(w, http.StatusOK, eff.Masked())
}
