package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/POS-Ninjas/backend/internal/logger"

	"github.com/go-redis/redis/v9"
	"go.uber.org/zap"
)

// Redis — фиксированное окно в минуту: INCR + EXPIRE в одном пайплайне.
// При недоступности Redis лимитер пропускает запрос (fail-open), сбой логируется.
type Redis struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, now: time.Now}
}

func (r *Redis) Allow(ctx context.Context, key string, limit Limit) bool {
	if limit.PerMinute < 1 {
		return true
	}

	k := fmt.Sprintf("ratelimit:%s:m%d", key, r.now().Minute())

	var count *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, time.Minute)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return false
	}
	if err != nil {
		logger.Log.Error("Лимитер: ошибка Redis, запрос пропущен", zap.Error(err))
		return true
	}

	return count.Val() <= int64(limit.PerMinute)
}
