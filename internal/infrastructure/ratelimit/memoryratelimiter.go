package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryRateLimiter is the single-process limiter used when redis is
// disabled. Counts are lost on restart and not shared between replicas.
type MemoryRateLimiter struct {
	mu   sync.Mutex
	hits map[string][]time.Time
	now  func() time.Time
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{
		hits: make(map[string][]time.Time),
		now:  time.Now,
	}
}

func (l *MemoryRateLimiter) Allow(_ context.Context, key string, config RateLimitConfig) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	allowed := true
	for _, w := range windowsFor(config) {
		if w.limit <= 0 {
			continue
		}
		bucket := l.getKey(key, w.duration)
		hits := prune(l.hits[bucket], now.Add(-w.duration))
		if len(hits) >= w.limit {
			allowed = false
		}
		l.hits[bucket] = append(hits, now)
	}
	return allowed, nil
}

func (l *MemoryRateLimiter) GetRemaining(_ context.Context, key string, window time.Duration) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket := l.getKey(key, window)
	hits := prune(l.hits[bucket], l.now().Add(-window))
	l.hits[bucket] = hits
	return int64(len(hits)), nil
}

func (l *MemoryRateLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, w := range windowsFor(RateLimitConfig{}) {
		delete(l.hits, l.getKey(key, w.duration))
	}
	return nil
}

func (l *MemoryRateLimiter) getKey(identifier string, window time.Duration) string {
	return identifier + ":" + window.String()
}

func prune(hits []time.Time, after time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(after) {
		i++
	}
	return hits[i:]
}
