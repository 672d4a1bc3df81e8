package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FixedWindow counts requests in aligned time windows. The counter key
// embeds the window number and expires with the window, so rollover is
// abrupt: a burst straddling the boundary may see up to 2x the budget.
// That is an accepted property of the algorithm, not a bug.
type FixedWindow struct {
	rdb    *redis.Client
	prefix string
	max    int
	window time.Duration

	now func() time.Time
}

// NewFixedWindow constructs a fixed-window limiter.
func NewFixedWindow(rdb *redis.Client, prefix string, max int, window time.Duration) *FixedWindow {
	return &FixedWindow{rdb: rdb, prefix: prefix, max: max, window: window, now: time.Now}
}

// Allow increments the current window's counter and admits the request
// while the count stays within budget.
func (l *FixedWindow) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	windowNum := now.UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, windowNum)
	reset := time.Unix(0, (windowNum+1)*int64(l.window))

	pipe := l.rdb.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{Allowed: true, Limit: l.max, Remaining: l.max, Reset: reset}, err
	}

	count := int(incr.Val())
	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= l.max,
		Limit:     l.max,
		Remaining: remaining,
		Reset:     reset,
	}, nil
}

var _ Limiter = (*FixedWindow)(nil)
