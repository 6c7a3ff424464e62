// Package handlers implements the HTTP endpoints of the proxy: the chat
// completion orchestrator, login and logout, the recent-logs view, the
// settings surface, and health probes.
package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/TociNwaoha/IQBandit/pkg/auditlog"
	"github.com/TociNwaoha/IQBandit/pkg/gateway"
	"github.com/TociNwaoha/IQBandit/pkg/limits/ratelimit"
	"github.com/TociNwaoha/IQBandit/pkg/proxy"
	"github.com/TociNwaoha/IQBandit/pkg/security/auth"
	"github.com/TociNwaoha/IQBandit/pkg/settings"
	"github.com/TociNwaoha/IQBandit/pkg/telemetry/metrics"
)

// ChatHandler orchestrates one chat completion request: authentication,
// rate limiting, feature gate, validation, dispatch to the buffered or
// streaming path, audit logging, response. Checks run cheapest first, and a
// request rejected before dispatch consumes no upstream work and writes no
// audit entry.
type ChatHandler struct {
	client  *gateway.Client
	limiter *ratelimit.Limiter
	audit   *auditlog.Logger
	source  settings.Source
	logger  *slog.Logger
}

// NewChatHandler wires the chat endpoint.
func NewChatHandler(client *gateway.Client, limiter *ratelimit.Limiter, audit *auditlog.Logger, source settings.Source) *ChatHandler {
	return &ChatHandler{
		client:  client,
		limiter: limiter,
		audit:   audit,
		source:  source,
		logger:  slog.Default().With("component", "chat-handler"),
	}
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		proxy.WriteMethodNotAllowed(w)
		return
	}

	claims := auth.SessionFromContext(r.Context())
	if claims == nil {
		proxy.WriteError(w, http.StatusUnauthorized, proxy.ChatError{
			Code:    proxy.CodeAuthError,
			Message: "Not authenticated",
		})
		return
	}

	res := h.limiter.Check(ratelimit.IdentityKey(claims.Email, r))
	if !res.Allowed {
		proxy.WriteRateLimited(w, res.RetryAfter)
		return
	}

	eff, err := h.source.Get()
	if err != nil {
		h.logger.Warn("settings read failed, using defaults", "error", err)
	}
	if !eff.ChatEnabled() {
		proxy.WriteError(w, http.StatusServiceUnavailable, proxy.ChatError{
			Code:    proxy.CodeChatDisabled,
			Message: "Chat is currently disabled by the administrator.",
		})
		return
	}

	req, reqErr := proxy.ParseChatRequest(r)
	if reqErr != nil {
		proxy.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": reqErr.Message})
		return
	}

	start := time.Now()
	promptChars := req.PromptChars()

	if req.Stream {
		h.streamCompletion(w, r, claims.Email, req, start, promptChars)
		return
	}
	h.bufferedCompletion(w, r, claims.Email, req, start, promptChars)
}

// entry builds the audit record shared by both paths.
func (h *ChatHandler) entry(email, model string, start time.Time, promptChars, responseChars int, errMsg string) auditlog.Entry {
	return auditlog.Entry{
		Timestamp:     auditlog.Now(),
		Email:         email,
		Model:         model,
		LatencyMs:     time.Since(start).Milliseconds(),
		Success:       errMsg == "",
		ErrorMessage:  errMsg,
		PromptChars:   promptChars,
		ResponseChars: responseChars,
	}
}

// failUpstream classifies, logs, audits, and answers 502 for an upstream
// failure. The raw error text stays server-side.
func (h *ChatHandler) failUpstream(w http.ResponseWriter, r *http.Request, email string, req *gateway.ChatCompletionRequest, start time.Time, promptChars int, mode string, err error) {
	chatErr := proxy.Classify(err)
	metrics.UpstreamErrors.WithLabelValues(string(chatErr.Code)).Inc()
	metrics.ChatLatency.WithLabelValues(mode, "error").Observe(time.Since(start).Seconds())

	h.logger.Error("upstream chat completion failed",
		"mode", mode,
		"model", req.Model,
		"code", chatErr.Code,
		"error", err,
	)
	h.audit.Log(h.entry(email, req.Model, start, promptChars, 0, err.Error()))
	proxy.WriteError(w, http.StatusBadGateway, chatErr)
}

func (h *ChatHandler) bufferedCompletion(w http.ResponseWriter, r *http.Request, email string, req *gateway.ChatCompletionRequest, start time.Time, promptChars int) {
	resp, err := h.client.Complete(r.Context(), req)
	if err != nil {
		h.failUpstream(w, r, email, req, start, promptChars, "buffered", err)
		return
	}

	content := resp.AssistantContent()
	if content == "" {
		h.logger.Error("gateway response carried no assistant content", "model", req.Model)
		h.audit.Log(h.entry(email, req.Model, start, promptChars, 0, "no assistant content in gateway response"))
		metrics.ChatLatency.WithLabelValues("buffered", "error").Observe(time.Since(start).Seconds())
		proxy.WriteError(w, http.StatusBadGateway, proxy.ChatError{
			Code:    proxy.CodeGatewayError,
			Message: "No response received from model",
		})
		return
	}

	h.audit.Log(h.entry(email, req.Model, start, promptChars, len(content), ""))
	metrics.ChatLatency.WithLabelValues("buffered", "success").Observe(time.Since(start).Seconds())
	proxy.WriteJSON(w, http.StatusOK, resp)
}

func (h *ChatHandler) streamCompletion(w http.ResponseWriter, r *http.Request, email string, req *gateway.ChatCompletionRequest, start time.Time, promptChars int) {
	resp, err := h.client.CompleteStream(r.Context(), req)
	if err != nil {
		h.failUpstream(w, r, email, req, start, promptChars, "stream", err)
		return
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		resp.Body.Close()
		upstreamErr := &gateway.UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
		h.failUpstream(w, r, email, req, start, promptChars, "stream", upstreamErr)
		return
	}

	if resp.Body == http.NoBody {
		resp.Body.Close()
		h.logger.Error("gateway answered 2xx with an empty streaming body", "model", req.Model)
		h.audit.Log(h.entry(email, req.Model, start, promptChars, 0, "empty streaming body from gateway"))
		metrics.ChatLatency.WithLabelValues("stream", "error").Observe(time.Since(start).Seconds())
		proxy.WriteError(w, http.StatusBadGateway, proxy.ChatError{
			Code:    proxy.CodeGatewayError,
			Message: "No response received from model",
		})
		return
	}

	proxy.SetSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	result := proxy.Relay(r.Context(), w, resp.Body)
	resp.Body.Close()

	switch result.Outcome {
	case proxy.RelayComplete:
		h.audit.Log(h.entry(email, req.Model, start, promptChars, int(result.Bytes), ""))
		metrics.ChatLatency.WithLabelValues("stream", "success").Observe(time.Since(start).Seconds())
	case proxy.RelayUpstreamFailed:
		h.logger.Error("upstream stream failed mid-relay",
			"model", req.Model,
			"bytes", result.Bytes,
			"error", result.Err,
		)
		h.audit.Log(h.entry(email, req.Model, start, promptChars, int(result.Bytes), "stream interrupted: "+result.Err.Error()))
		metrics.ChatLatency.WithLabelValues("stream", "error").Observe(time.Since(start).Seconds())
	case proxy.RelayClientGone:
		// The client hung up; the response can't carry anything more
		// and the interaction never completed, so nothing to audit.
		h.logger.Debug("client disconnected mid-stream",
			"model", req.Model,
			"bytes", result.Bytes,
		)
	}
}
