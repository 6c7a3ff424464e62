package proxy

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseChatRequestValid(t *testing.T) {
	body := `{
		"model": "openclaw:main",
		"messages": [
			{"role": "system", "content": "You are terse."},
			{"role": "user", "content": "Hello"}
		],
		"stream": true
	}`
	r := httptest.NewRequest("POST", "/api/openclaw/chat", strings.NewReader(body))

	req, reqErr := ParseChatRequest(r)
	if reqErr != nil {
		t.Fatalf("ParseChatRequest() error = %v", reqErr)
	}
	if req.Model != "openclaw:main" {
		t.Errorf("Model = %q, want openclaw:main", req.Model)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(req.Messages))
	}
	if !req.Stream {
		t.Error("Stream = false, want true")
	}
	want := len("You are terse.") + len("Hello")
	if req.PromptChars() != want {
		t.Errorf("PromptChars() = %d, want %d", req.PromptChars(), want)
	}
}

func TestParseChatRequestRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"invalid json", `{"model": `},
		{"missing model", `{"messages": [{"role": "user", "content": "hi"}]}`},
		{"empty messages", `{"model": "m", "messages": []}`},
		{"missing messages", `{"model": "m"}`},
		{"invalid role", `{"model": "m", "messages": [{"role": "tool", "content": "x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/openclaw/chat", strings.NewReader(tt.body))
			req, reqErr := ParseChatRequest(r)
			if reqErr == nil {
				t.Fatalf("ParseChatRequest() accepted %q, got %+v", tt.body, req)
			}
			if reqErr.Message == "" {
				t.Error("RequestError has empty message")
			}
		})
	}
}

func TestParseChatRequestAllowsAllValidRoles(t *testing.T) {
	body := `{
		"model": "m",
		"messages": [
			{"role": "system", "content": "a"},
			{"role": "user", "content": "b"},
			{"role": "assistant", "content": "c"},
			{"role": "user", "content": "d"}
		]
	}`
	r := httptest.NewRequest("POST", "/api/openclaw/chat", strings.NewReader(body))
	if _, reqErr := ParseChatRequest(r); reqErr != nil {
		t.Fatalf("ParseChatRequest() error = %v", reqErr)
	}
}
