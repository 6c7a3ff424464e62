package auditlog

import "time"

// Entry is one audit record. Created exactly once per completed request and
// never mutated afterwards.
type Entry struct {
	// Timestamp is RFC 3339 in UTC.
	Timestamp string `json:"timestamp"`
	// Email is the verified caller identity.
	Email string `json:"email"`
	Model string `json:"model"`
	// LatencyMs is wall-clock time from dispatch to upstream resolution.
	LatencyMs int64 `json:"latency_ms"`
	Success   bool  `json:"success"`
	// ErrorMessage holds the raw technical detail on failure, empty on
	// success. Server-side only; clients never see this field's content.
	ErrorMessage string `json:"error_message"`
	PromptChars  int    `json:"prompt_chars"`
	// ResponseChars is the assistant content length for buffered calls
	// and the relayed byte count for streams.
	ResponseChars int `json:"response_chars"`
}

// Now returns the current UTC time formatted for the Timestamp field.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
