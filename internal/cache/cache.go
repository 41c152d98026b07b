// 包 cache：查询结果缓存（进程内 LRU + 可选 Redis），值统一为 JSON 字节
// 背景：目录数据只读，半径检索与分类子树展开的结果可短期复用，减少数据库往返。
// 约束：缓存失效仅靠 TTL；任一层出错都按未命中处理，不影响主流程。
package cache

import (
	"context"
	"encoding/json"
	"time"

	"org-directory/internal/logger"
	"org-directory/internal/metrics"
)

// DefaultTTL：未配置 CACHE_TTL_S 时的过期时间
const DefaultTTL = 60 * time.Second

// Cache：单层缓存
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
	Name() string
}

// Chain：多层缓存，按顺序读取，命中后回填前面的层
type Chain struct {
	layers []Cache
}

// NewChain：nil 层被忽略
func NewChain(layers ...Cache) *Chain {
	c := &Chain{}
	for _, l := range layers {
		if l != nil {
			c.layers = append(c.layers, l)
		}
	}
	return c
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	for i, l := range c.layers {
		b, ok := l.Get(ctx, key)
		if !ok {
			metrics.CacheMissesTotal.WithLabelValues(l.Name()).Inc()
			continue
		}
		metrics.CacheHitsTotal.WithLabelValues(l.Name()).Inc()
		for j := 0; j < i; j++ {
			c.layers[j].Set(ctx, key, b)
		}
		return b, true
	}
	return nil, false
}

func (c *Chain) Set(ctx context.Context, key string, val []byte) {
	if c == nil {
		return
	}
	for _, l := range c.layers {
		l.Set(ctx, key, val)
	}
}

// Len：层数，0 表示缓存关闭
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.layers)
}

// Fetch：读缓存，未命中时调用 fill 并写回
// 约束：fill 返回错误时不写缓存；c 为 nil 时直接调用 fill。
func Fetch[T any](ctx context.Context, c Cache, key string, fill func() (T, error)) (T, error) {
	if c != nil {
		if b, ok := c.Get(ctx, key); ok {
			var v T
			if err := json.Unmarshal(b, &v); err == nil {
				return v, nil
			}
			logger.L().Warn("cache_decode_error", "key", key)
		}
	}
	v, err := fill()
	if err != nil {
		return v, err
	}
	if c != nil {
		if b, err := json.Marshal(v); err == nil {
			c.Set(ctx, key, b)
		}
	}
	return v, nil
}
