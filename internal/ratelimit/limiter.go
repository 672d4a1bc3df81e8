// Package ratelimit bounds request volume per identity or address using
// Redis-backed counters. All limiters fail open: a backing-store error is
// logged and the request proceeds, so an infrastructure hiccup never
// turns into a full outage.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one limiter check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter decides whether a keyed request may proceed, consuming budget
// when it does.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
