// Package gateway is the HTTP client for the upstream chat-completion
// service. It exposes a buffered call that parses the JSON response and a
// streaming call that hands back the live response body untouched. Both read
// the effective settings at call time, and both surface failures as typed
// errors carrying enough structure (status code, body, timeout or dial
// signal) for the caller to classify without parsing error strings.
package gateway
