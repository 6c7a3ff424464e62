package proxy

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/TociNwaoha/IQBandit/pkg/gateway"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode Code
	}{
		{
			name:     "timeout",
			err:      &gateway.TimeoutError{Cause: errors.New("context deadline exceeded")},
			wantCode: CodeGatewayTimeout,
		},
		{
			name:     "connection refused",
			err:      &gateway.ConnectError{Cause: errors.New("dial tcp 127.0.0.1:19001: connect: connection refused")},
			wantCode: CodeGatewayNotReachable,
		},
		{
			name:     "upstream 404",
			err:      &gateway.UpstreamError{StatusCode: 404, Body: "not found"},
			wantCode: CodeEndpointNotFound,
		},
		{
			name:     "upstream 405",
			err:      &gateway.UpstreamError{StatusCode: 405, Body: "method not allowed"},
			wantCode: CodeMethodNotAllowed,
		},
		{
			name:     "upstream 401",
			err:      &gateway.UpstreamError{StatusCode: 401, Body: "unauthorized"},
			wantCode: CodeAuthError,
		},
		{
			name:     "upstream 403",
			err:      &gateway.UpstreamError{StatusCode: 403, Body: "forbidden"},
			wantCode: CodeAuthError,
		},
		{
			name:     "upstream 500",
			err:      &gateway.UpstreamError{StatusCode: 500, Body: "internal"},
			wantCode: CodeGatewayError,
		},
		{
			name:     "upstream 502",
			err:      &gateway.UpstreamError{StatusCode: 502, Body: "bad gateway"},
			wantCode: CodeGatewayError,
		},
		{
			name:     "upstream 503",
			err:      &gateway.UpstreamError{StatusCode: 503, Body: "unavailable"},
			wantCode: CodeGatewayError,
		},
		{
			name:     "upstream other status",
			err:      &gateway.UpstreamError{StatusCode: 418, Body: "teapot"},
			wantCode: CodeGatewayError,
		},
		{
			name:     "decode failure",
			err:      &gateway.DecodeError{Cause: errors.New("invalid character '<'")},
			wantCode: CodeNotRESTCompatible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("Classify(%v).Code = %s, want %s", tt.err, got.Code, tt.wantCode)
			}
			if got.Message == "" {
				t.Errorf("Classify(%v) returned empty message", tt.err)
			}
		})
	}
}

func TestClassifyWrappedErrors(t *testing.T) {
	inner := &gateway.UpstreamError{StatusCode: 404, Body: "nope"}
	wrapped := fmt.Errorf("completion failed: %w", inner)

	got := Classify(wrapped)
	if got.Code != CodeEndpointNotFound {
		t.Errorf("Classify(wrapped).Code = %s, want %s", got.Code, CodeEndpointNotFound)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	err := &gateway.UpstreamError{StatusCode: 503, Body: "overloaded"}
	first := Classify(err)
	second := Classify(err)
	if first != second {
		t.Errorf("Classify not deterministic: %+v vs %+v", first, second)
	}
}

func TestClassifyUnknownErrorKeepsMessage(t *testing.T) {
	got := Classify(errors.New("No response received from model"))
	if got.Code != CodeGatewayError {
		t.Errorf("Code = %s, want %s", got.Code, CodeGatewayError)
	}
	if got.Message != "No response received from model" {
		t.Errorf("Message = %q, want the original text", got.Message)
	}
}

func TestClassifyMessagesNeverLeakUpstreamDetail(t *testing.T) {
	// Bodies and transport errors routinely carry addresses and response
	// text that must stay server-side.
	errs := []error{
		&gateway.TimeoutError{Cause: errors.New("Post \"http://10.0.0.5:19001/v1/chat/completions\": context deadline exceeded")},
		&gateway.ConnectError{Cause: errors.New("dial tcp 10.0.0.5:19001: connect: connection refused")},
		&gateway.UpstreamError{StatusCode: 500, Body: "panic at http://10.0.0.5:19001 with token sk-secret-123"},
		&gateway.DecodeError{Cause: errors.New("invalid character '<' looking for beginning of value")},
	}

	for _, err := range errs {
		msg := Classify(err).Message
		for _, leaked := range []string{"10.0.0.5", "19001", "http://", "sk-secret", "goroutine"} {
			if strings.Contains(msg, leaked) {
				t.Errorf("message %q leaks upstream detail %q", msg, leaked)
			}
		}
	}
}
