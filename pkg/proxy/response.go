package proxy

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"
)

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorBody is the wire shape for every error response.
type errorBody struct {
	Error string `json:"error"`
	Code  Code   `json:"code"`
}

// WriteError writes a classified error response.
func WriteError(w http.ResponseWriter, status int, chatErr ChatError) {
	WriteJSON(w, status, errorBody{Error: chatErr.Message, Code: chatErr.Code})
}

// WriteRateLimited writes a 429 with a Retry-After header rounded up to
// whole seconds.
func WriteRateLimited(w http.ResponseWriter, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	WriteError(w, http.StatusTooManyRequests, ChatError{
		Code:    CodeRateLimited,
		Message: "Too many requests. Please wait before retrying.",
	})
}

// WriteMethodNotAllowed writes the 405 contract for POST-only routes.
func WriteMethodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Allow", http.MethodPost)
	WriteError(w, http.StatusMethodNotAllowed, ChatError{
		Code:    CodeMethodNotAllowed,
		Message: "Method not allowed. Use POST.",
	})
}

// SetSSEHeaders prepares a streaming response: no caching, no intermediary
// buffering, bytes reach the client as they arrive.
func SetSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}
