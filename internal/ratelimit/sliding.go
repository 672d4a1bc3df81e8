package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SlidingWindow keeps a time-ordered log of request timestamps per key.
// More accurate than a fixed window at the cost of one sorted-set entry
// per admitted request.
type SlidingWindow struct {
	rdb    *redis.Client
	prefix string
	max    int
	window time.Duration

	now func() time.Time
}

// NewSlidingWindow constructs a sliding-window limiter.
func NewSlidingWindow(rdb *redis.Client, prefix string, max int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{rdb: rdb, prefix: prefix, max: max, window: window, now: time.Now}
}

// Allow drops expired entries, records the current request and admits it
// while the windowed cardinality stays within budget.
func (l *SlidingWindow) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)
	cutoff := now.Add(-l.window).UnixNano()
	reset := now.Add(l.window)

	pipe := l.rdb.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(cutoff, 10))
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})
	card := pipe.ZCard(ctx, redisKey)
	oldest := pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{Allowed: true, Limit: l.max, Remaining: l.max, Reset: reset}, err
	}

	// A slot frees when the oldest retained entry falls out of the window.
	if entries := oldest.Val(); len(entries) > 0 {
		reset = time.Unix(0, int64(entries[0].Score)).Add(l.window)
	}

	count := int(card.Val())
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

var _ Limiter = (*SlidingWindow)(nil)
