package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// 固定ウィンドウのカウンタ。INCRして初回だけEXPIREを付ける。
type RedisLimiter struct {
	rdb *redis.Client
}

func NewRedisLimiter(rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{rdb: rdb}
}

// Allow はwindow内でmax回まで許可する。拒否時は解除までの残り時間も返す。
func (l *RedisLimiter) Allow(ctx context.Context, key string, max int64, window time.Duration) (bool, time.Duration, error) {
	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, 0, err
		}
	}
	if n <= max {
		return true, 0, nil
	}

	ttl, err := l.rdb.TTL(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	//EXPIREが付いていないキーは作り直す
	if ttl < 0 {
		if err := l.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, 0, err
		}
		ttl = window
	}
	return false, ttl, nil
}
