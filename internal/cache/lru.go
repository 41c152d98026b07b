package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultLRUSize：未配置 CACHE_LRU_SIZE 时的条目上限
const DefaultLRUSize = 4096

// LRU：进程内缓存，容量与 TTL 双重淘汰
type LRU struct {
	c *expirable.LRU[string, []byte]
}

func NewLRU(size int, ttl time.Duration) *LRU {
	if size <= 0 {
		size = DefaultLRUSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LRU{c: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (l *LRU) Name() string { return "lru" }

func (l *LRU) Get(_ context.Context, key string) ([]byte, bool) {
	return l.c.Get(key)
}

func (l *LRU) Set(_ context.Context, key string, val []byte) {
	l.c.Add(key, val)
}

func (l *LRU) Len() int { return l.c.Len() }
