package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/TociNwaoha/IQBandit/pkg/settings"
)

const (
	// maxErrorBodyBytes bounds how much of an upstream error body is
	// retained for logs and classification.
	maxErrorBodyBytes = 64 * 1024
)

// Config controls client timeouts.
type Config struct {
	// Timeout bounds the time to first response for both call styles.
	// Once a streaming response has begun, no further timeout applies.
	Timeout time.Duration
	// HealthTimeout bounds the reachability probe.
	HealthTimeout time.Duration
}

// DefaultConfig returns the standard timeouts.
func DefaultConfig() Config {
	return Config{
		Timeout:       30 * time.Second,
		HealthTimeout: 5 * time.Second,
	}
}

// Client calls the upstream gateway. Settings are read from the source on
// every call, so a saved configuration change applies to the next request.
type Client struct {
	httpClient *http.Client
	source     settings.Source
	cfg        Config
	logger     *slog.Logger
}

// NewClient creates a gateway client reading effective settings from source.
func NewClient(source settings.Source, cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = DefaultConfig().HealthTimeout
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		// No client-level timeout: it would cap streaming bodies. Each
		// call bounds its own time to first response instead.
		httpClient: &http.Client{Transport: transport},
		source:     source,
		cfg:        cfg,
		logger:     slog.Default().With("component", "gateway-client"),
	}
}

// current reads the effective settings. A read failure falls back to the
// source's defaults (the source reports those alongside the error).
func (c *Client) current() settings.GatewaySettings {
	eff, err := c.source.Get()
	if err != nil {
		c.logger.Warn("settings read failed, using defaults", "error", err)
	}
	return eff
}

func chatURL(s settings.GatewaySettings) string {
	base := strings.TrimRight(s.URL, "/")
	path := s.ChatPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// newRequest builds the authenticated upstream POST.
func newRequest(ctx context.Context, s settings.GatewaySettings, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatURL(s), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	return req, nil
}

// wrapTransportError maps a transport failure to a typed error. timedOut
// distinguishes our own deadline from a caller cancellation.
func wrapTransportError(err error, timedOut bool) error {
	if timedOut || errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &ConnectError{Cause: err}
}

// Complete issues a buffered chat completion call. Non-2xx responses become
// an *UpstreamError carrying the status and body text; transport failures
// become *TimeoutError or *ConnectError; undecodable 2xx bodies become a
// *DecodeError.
func (c *Client) Complete(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	s := c.current()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	httpReq, err := newRequest(ctx, s, payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, wrapTransportError(err, false)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &DecodeError{Cause: err}
	}
	return &out, nil
}

// cancelOnCloseBody releases the request's cancel func when the body is
// closed, so the connection is returned or torn down either way.
type cancelOnCloseBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnCloseBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// CompleteStream issues the same authenticated POST but returns the live
// response without reading the body. The configured timeout bounds only the
// time to response headers; after that the stream runs until the upstream
// closes it or the caller closes the body. Callers must check the status
// before treating the body as a stream: a non-2xx body is an error payload.
func (c *Client) CompleteStream(ctx context.Context, req *ChatCompletionRequest) (*http.Response, error) {
	s := c.current()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)

	// Bound the wait for headers without putting a deadline on the body.
	var timedOut atomic.Bool
	timer := time.AfterFunc(c.cfg.Timeout, func() {
		timedOut.Store(true)
		cancel()
	})

	httpReq, err := newRequest(ctx, s, payload)
	if err != nil {
		timer.Stop()
		cancel()
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	timer.Stop()
	if err != nil {
		cancel()
		return nil, wrapTransportError(err, timedOut.Load())
	}

	resp.Body = &cancelOnCloseBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}
