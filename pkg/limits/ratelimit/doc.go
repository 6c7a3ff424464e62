// Package ratelimit implements fixed-window request limiting.
//
// Each Limiter owns one policy (a limit and a window) and an in-memory
// counter map keyed by caller identity. Counters reset at fixed window
// boundaries rather than sliding. Expired records are reclaimed by a
// cron-scheduled Janitor so the map stays bounded without touching the
// request path.
package ratelimit
