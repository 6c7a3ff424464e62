package gateway

import "fmt"

// TimeoutError indicates the upstream did not answer within the deadline.
type TimeoutError struct {
	Cause error
}

func (e *TimeoutError) Error() string {
	return "gateway request timed out"
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// ConnectError indicates the upstream could not be reached at all: refused
// connection, DNS failure, or any other transport-level fault before a
// response.
type ConnectError struct {
	Cause error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("gateway not reachable: %v", e.Cause)
}

func (e *ConnectError) Unwrap() error {
	return e.Cause
}

// UpstreamError carries a non-2xx upstream response: the status code and the
// body read as text. The body goes to server logs and the audit trail, never
// to clients.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("OpenClaw gateway error [%d]: %s", e.StatusCode, e.Body)
}

// DecodeError indicates a 2xx response whose body was not valid JSON of the
// expected shape.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("gateway response not decodable: %v", e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
