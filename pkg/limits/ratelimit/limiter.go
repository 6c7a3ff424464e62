package ratelimit

import (
	"sync"
	"time"

	"github.com/TociNwaoha/IQBandit/pkg/telemetry/metrics"
)

// Policy describes one fixed-window rate limit.
type Policy struct {
	// Name identifies the policy in logs and metrics ("chat", "login").
	Name string
	// Limit is the maximum number of requests per window.
	Limit int
	// Window is the fixed window length.
	Window time.Duration
}

// Result is the outcome of a single Check call. It is a value type, never
// retained by the limiter.
type Result struct {
	Allowed bool
	// Remaining is the number of requests left in the current window.
	Remaining int
	// RetryAfter is how long until the window resets. Only meaningful
	// when Allowed is false.
	RetryAfter time.Duration
}

// record tracks one key's count within its current window. A record whose
// resetAt has passed is stale and is replaced, never incremented.
type record struct {
	count   int
	resetAt time.Time
}

// Limiter is a concurrency-safe fixed-window limiter for one policy.
// Instances for different policies hold fully independent state.
type Limiter struct {
	policy Policy

	mu      sync.Mutex
	records map[string]*record

	// now is replaceable in tests.
	now func() time.Time
}

// New creates a limiter for the given policy.
func New(policy Policy) *Limiter {
	return &Limiter{
		policy:  policy,
		records: make(map[string]*record),
		now:     time.Now,
	}
}

// Policy returns the limiter's policy.
func (l *Limiter) Policy() Policy {
	return l.policy
}

// Check consumes one unit for key and reports whether the request may
// proceed. The read-modify-write runs under the limiter's lock, so two
// concurrent requests can never both pass an already-exhausted window.
func (l *Limiter) Check(key string) Result {
	l.mu.Lock()
	now := l.now()

	rec, ok := l.records[key]
	if !ok || now.After(rec.resetAt) || now.Equal(rec.resetAt) {
		l.records[key] = &record{count: 1, resetAt: now.Add(l.policy.Window)}
		l.mu.Unlock()
		metrics.RateLimitDecisions.WithLabelValues(l.policy.Name, "allowed").Inc()
		return Result{Allowed: true, Remaining: l.policy.Limit - 1}
	}

	if rec.count < l.policy.Limit {
		rec.count++
		remaining := l.policy.Limit - rec.count
		l.mu.Unlock()
		metrics.RateLimitDecisions.WithLabelValues(l.policy.Name, "allowed").Inc()
		return Result{Allowed: true, Remaining: remaining}
	}

	retryAfter := rec.resetAt.Sub(now)
	l.mu.Unlock()
	metrics.RateLimitDecisions.WithLabelValues(l.policy.Name, "denied").Inc()
	return Result{Allowed: false, RetryAfter: retryAfter}
}

// Sweep deletes records whose window has passed and returns how many were
// removed. It holds the lock for the duration of the scan; the map is small
// enough (one entry per active caller) that this never contends noticeably
// with request handling.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, rec := range l.records {
		if now.After(rec.resetAt) {
			delete(l.records, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
