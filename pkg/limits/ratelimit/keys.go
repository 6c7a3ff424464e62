package ratelimit

import (
	"net/http"
	"strings"
)

// IdentityKey derives the chat-policy key for a request: the verified
// identity when present, otherwise the client address.
func IdentityKey(identity string, r *http.Request) string {
	if identity != "" {
		return "email:" + identity
	}
	return ClientKey(r)
}

// ClientKey derives a key from the client's forwarded address. Only the
// first hop of X-Forwarded-For is used: that is the originating client, the
// rest are intermediaries. Requests with no forwarding header share a single
// "unknown" bucket, a deliberate tradeoff for deployments behind a proxy
// that always sets the header.
func ClientKey(r *http.Request) string {
	fwd := r.Header.Get("X-Forwarded-For")
	if fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		first = strings.TrimSpace(first)
		if first != "" {
			return "ip:" + first
		}
	}
	return "ip:unknown"
}
