// 包 utils：外部连接与证书工具
package utils

import (
	"github.com/redis/go-redis/v9"

	"org-directory/internal/config"
	"org-directory/internal/logger"
)

// OpenRedis：按配置打开 Redis 客户端
// 约束：REDIS_ENABLED 未开启时返回 nil，调用方据此关闭 Redis 缓存层。
func OpenRedis(c config.Redis) *redis.Client {
	if !c.Enabled {
		return nil
	}
	db := c.DB
	if db < 0 {
		db = 0
	}
	logger.L().Debug("redis_env", "addr", c.Addr(), "db", db)
	return redis.NewClient(&redis.Options{Addr: c.Addr(), Password: c.Pass, DB: db})
}
