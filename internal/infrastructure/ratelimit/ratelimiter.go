package ratelimit

import (
	"context"
	"time"
)

type RateLimitConfig struct {
	RequestsPerMinute int
	RequestsPerHour   int
}

// RateLimiter counts attempts per key over sliding windows. Denied attempts
// count too, so a client hammering the endpoint stays blocked.
type RateLimiter interface {
	Allow(ctx context.Context, key string, config RateLimitConfig) (bool, error)
	GetRemaining(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

type window struct {
	duration time.Duration
	limit    int
}

func windowsFor(config RateLimitConfig) []window {
	return []window{
		{time.Minute, config.RequestsPerMinute},
		{time.Hour, config.RequestsPerHour},
	}
}
