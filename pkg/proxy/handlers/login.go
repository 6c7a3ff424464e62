package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/TociNwaoha/IQBandit/pkg/limits/ratelimit"
	"github.com/TociNwaoha/IQBandit/pkg/proxy"
	"github.com/TociNwaoha/IQBandit/pkg/security/auth"
)

// AuthHandler serves login and logout. Login attempts are rate limited by
// client address only, never by the submitted email: limiting per email
// would let an attacker probe which accounts exist by watching limits fill.
type AuthHandler struct {
	sessions          *auth.Manager
	limiter           *ratelimit.Limiter
	adminEmail        string
	adminPasswordHash string
	logger            *slog.Logger
}

// NewAuthHandler wires the authentication endpoints.
func NewAuthHandler(sessions *auth.Manager, limiter *ratelimit.Limiter, adminEmail, adminPasswordHash string) *AuthHandler {
	return &AuthHandler{
		sessions:          sessions,
		limiter:           limiter,
		adminEmail:        adminEmail,
		adminPasswordHash: adminPasswordHash,
		logger:            slog.Default().With("component", "auth-handler"),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		proxy.WriteMethodNotAllowed(w)
		return
	}

	res := h.limiter.Check(ratelimit.ClientKey(r))
	if !res.Allowed {
		proxy.WriteRateLimited(w, res.RetryAfter)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		proxy.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Request body is not valid JSON"})
		return
	}
	if req.Email == "" || req.Password == "" {
		proxy.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Email and password are required"})
		return
	}

	if !strings.EqualFold(req.Email, h.adminEmail) || !auth.VerifyPassword(req.Password, h.adminPasswordHash) {
		// One generic message for both wrong email and wrong password.
		h.logger.Warn("login failed", "key", ratelimit.ClientKey(r))
		proxy.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
		return
	}

	token, err := h.sessions.Issue(h.adminEmail, true)
	if err != nil {
		h.logger.Error("failed to issue session", "error", err)
		proxy.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create session"})
		return
	}

	h.sessions.SetCookie(w, token)
	h.logger.Info("login succeeded", "email", h.adminEmail)
	proxy.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"email":   h.adminEmail,
		"isAdmin": true,
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		proxy.WriteMethodNotAllowed(w)
		return
	}
	h.sessions.ClearCookie(w)
	proxy.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
