// Package proxy contains the request-side building blocks of the chat
// pipeline: body parsing and validation, response and SSE writers, the
// upstream failure classifier, and the byte-counting stream relay. The
// handlers in proxy/handlers compose these.
package proxy
