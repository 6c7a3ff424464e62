package ratelimit

import (
	"net/http/httptest"
	"testing"
)

func TestIdentityKeyPrefersIdentity(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/openclaw/chat", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.9")

	if got := IdentityKey("user@example.com", r); got != "email:user@example.com" {
		t.Errorf("IdentityKey = %q, want email-derived key", got)
	}
}

func TestClientKeyFirstForwardedHop(t *testing.T) {
	tests := []struct {
		name string
		xff  string
		want string
	}{
		{"single address", "203.0.113.9", "ip:203.0.113.9"},
		{"proxy chain takes first hop", "203.0.113.9, 10.0.0.1, 10.0.0.2", "ip:203.0.113.9"},
		{"whitespace trimmed", "  203.0.113.9 , 10.0.0.1", "ip:203.0.113.9"},
		{"no header", "", "ip:unknown"},
		{"empty first hop", " , 10.0.0.1", "ip:unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/openclaw/chat", nil)
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := ClientKey(r); got != tt.want {
				t.Errorf("ClientKey = %q, want %q", got, tt.want)
			}
		})
	}
}
