package proxy

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/TociNwaoha/IQBandit/pkg/gateway"
)

// maxRequestBytes bounds the request body read.
const maxRequestBytes = 10 * 1024 * 1024

// RequestError describes a locally rejected request body. These never reach
// the gateway client or the audit log.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// ParseChatRequest decodes and validates a chat completion body. It returns
// either a fully validated request or a *RequestError; never a partially
// populated value.
func ParseChatRequest(r *http.Request) (*gateway.ChatCompletionRequest, *RequestError) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		return nil, &RequestError{Message: "Failed to read request body"}
	}
	if len(body) == 0 {
		return nil, &RequestError{Message: "Request body is required"}
	}

	var req gateway.ChatCompletionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &RequestError{Message: "Request body is not valid JSON"}
	}

	if req.Model == "" {
		return nil, &RequestError{Message: "Field 'model' is required"}
	}
	if len(req.Messages) == 0 {
		return nil, &RequestError{Message: "Field 'messages' must be a non-empty array"}
	}
	for i, m := range req.Messages {
		switch m.Role {
		case "system", "user", "assistant":
		default:
			return nil, &RequestError{Message: fmt.Sprintf("Message %d has invalid role %q", i, m.Role)}
		}
	}

	return &req, nil
}
