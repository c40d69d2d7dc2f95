package ratelimiter

import "context"

type Limit struct {
	PerMinute int
}

// RateLimiter ограничивает частоту операций по ключу.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit Limit) bool
}

// AllowAll — заглушка при выключенном лимитере (пустой REDIS_ADDR).
type AllowAll struct{}

func (AllowAll) Allow(context.Context, string, Limit) bool { return true }
