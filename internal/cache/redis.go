package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"org-directory/internal/logger"
)

const redisPrefix = "orgdir:"

// Redis：跨实例共享缓存层
// 约束：client 为 nil 时所有读取均未命中、写入为空操作；网络错误只记录日志。
type Redis struct {
	rc  *redis.Client
	ttl time.Duration
}

func NewRedis(rc *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{rc: rc, ttl: ttl}
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	if r == nil || r.rc == nil {
		return nil, false
	}
	b, err := r.rc.Get(ctx, redisPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.L().Debug("redis_get_error", "key", key, "err", err)
		}
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, key string, val []byte) {
	if r == nil || r.rc == nil {
		return
	}
	if err := r.rc.Set(ctx, redisPrefix+key, val, r.ttl).Err(); err != nil {
		logger.L().Debug("redis_set_error", "key", key, "err", err)
	}
}
