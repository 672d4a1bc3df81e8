package ratelimit

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Predefined limiter profiles. Strict guards credential endpoints,
// Moderate guards authenticated mutation endpoints, Loose is the global
// floor carried by the default middleware stack.

// Strict allows 5 attempts per 5 minutes per address, fixed window.
func Strict(rdb *redis.Client, logger *slog.Logger) func(http.Handler) http.Handler {
	return Middleware(NewFixedWindow(rdb, "rl:strict", 5, 5*time.Minute), KeyByIP, logger)
}

// Moderate allows 30 mutations per minute per subject and endpoint,
// sliding window.
func Moderate(rdb *redis.Client, logger *slog.Logger) func(http.Handler) http.Handler {
	return Middleware(NewSlidingWindow(rdb, "rl:moderate", 30, time.Minute), KeyByEndpoint, logger)
}

// Loose is a token bucket with capacity 100 refilling at 10 tokens/s
// per subject.
func Loose(rdb *redis.Client, logger *slog.Logger) func(http.Handler) http.Handler {
	return Middleware(NewTokenBucket(rdb, "rl:loose", 100, 10), KeyBySubject, logger)
}
