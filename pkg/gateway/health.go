package gateway

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// CheckHealth probes the upstream for reachability: GET /health first, then
// the root path for gateways that expose no health route. The probe is
// bounded by the configured health timeout and never raises; unreachability
// is a reportable status, not an error.
func (c *Client) CheckHealth(ctx context.Context) HealthStatus {
	s := c.current()
	base := strings.TrimRight(s.URL, "/")
	start := time.Now()

	status, err := c.probe(ctx, base+"/health", s.Token)
	if err == nil && status < 400 {
		return HealthStatus{
			Reachable:  true,
			StatusCode: status,
			LatencyMs:  time.Since(start).Milliseconds(),
		}
	}

	// Any response from the root path still proves the process is up.
	status, err = c.probe(ctx, base+"/", s.Token)
	if err == nil {
		return HealthStatus{
			Reachable:  true,
			StatusCode: status,
			LatencyMs:  time.Since(start).Milliseconds(),
		}
	}

	return HealthStatus{
		Reachable: false,
		LatencyMs: time.Since(start).Milliseconds(),
		Detail:    "gateway did not respond",
	}
}

func (c *Client) probe(ctx context.Context, url, token string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
