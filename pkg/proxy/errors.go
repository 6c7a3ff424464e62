package proxy

import (
	"errors"

	"github.com/TociNwaoha/IQBandit/pkg/gateway"
)

// Code is a stable, client-visible error code. The set is closed; clients
// branch on these values.
type Code string

const (
	CodeRateLimited         Code = "RATE_LIMITED"
	CodeChatDisabled        Code = "CHAT_DISABLED"
	CodeGatewayTimeout      Code = "GATEWAY_TIMEOUT"
	CodeGatewayNotReachable Code = "GATEWAY_NOT_REACHABLE"
	CodeEndpointNotFound    Code = "ENDPOINT_NOT_FOUND"
	CodeMethodNotAllowed    Code = "METHOD_NOT_ALLOWED"
	CodeNotRESTCompatible   Code = "NOT_REST_COMPATIBLE"
	CodeAuthError           Code = "AUTH_ERROR"
	CodeGatewayError        Code = "GATEWAY_ERROR"
)

// ChatError is the classified, client-safe form of an upstream failure. The
// message never contains upstream URLs, tokens, or raw error text; full
// detail stays in server logs and the audit trail.
type ChatError struct {
	Code    Code   `json:"code"`
	Message string `json:"error"`
}

// Classify maps an upstream failure to its client-facing code and message.
// Pure: same input, same output, no I/O. Most specific signals first.
func Classify(err error) ChatError {
	var timeoutErr *gateway.TimeoutError
	if errors.As(err, &timeoutErr) {
		return ChatError{
			Code:    CodeGatewayTimeout,
			Message: "The gateway did not respond in time. It may be busy or still starting up.",
		}
	}

	var connectErr *gateway.ConnectError
	if errors.As(err, &connectErr) {
		return ChatError{
			Code:    CodeGatewayNotReachable,
			Message: "Could not reach the OpenClaw gateway. Check that it is running and that OPENCLAW_GATEWAY_URL is correct.",
		}
	}

	var upstreamErr *gateway.UpstreamError
	if errors.As(err, &upstreamErr) {
		switch upstreamErr.StatusCode {
		case 404:
			return ChatError{
				Code:    CodeEndpointNotFound,
				Message: "The gateway has no endpoint at the configured chat path. Check OPENCLAW_CHAT_PATH.",
			}
		case 405:
			return ChatError{
				Code:    CodeMethodNotAllowed,
				Message: "The gateway rejected the request method. The configured chat path may not be a chat completions route.",
			}
		case 401, 403:
			return ChatError{
				Code:    CodeAuthError,
				Message: "The gateway rejected the request as unauthorized. Check OPENCLAW_GATEWAY_TOKEN.",
			}
		case 500, 502, 503:
			return ChatError{
				Code:    CodeGatewayError,
				Message: "The gateway reported an internal error. Check the gateway's own logs for details.",
			}
		default:
			return ChatError{
				Code:    CodeGatewayError,
				Message: "The gateway returned an unexpected response.",
			}
		}
	}

	var decodeErr *gateway.DecodeError
	if errors.As(err, &decodeErr) {
		return ChatError{
			Code:    CodeNotRESTCompatible,
			Message: "The gateway responded with a payload that is not valid JSON. The configured endpoint may not be a REST API.",
		}
	}

	// Anything else has already been reduced to a safe message by the
	// layer that produced it.
	return ChatError{Code: CodeGatewayError, Message: err.Error()}
}
