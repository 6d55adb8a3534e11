package assets

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ImageCacher は、画像をキャッシュするためのインターフェースです。
type ImageCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得します。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存します。
	Set(key string, value any, d time.Duration)
}

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// LRUCache は件数上限付きの ImageCacher 実装です。
// maxTTL を超える有効期限は maxTTL に丸められます。
type LRUCache struct {
	lru *expirable.LRU[string, cacheEntry]
	now func() time.Time
}

// NewLRUCache は最大 size 件、最長 maxTTL 保持する LRUCache を生成します。
func NewLRUCache(size int, maxTTL time.Duration) *LRUCache {
	return &LRUCache{
		lru: expirable.NewLRU[string, cacheEntry](size, nil, maxTTL),
		now: time.Now,
	}
}

// Get はキーに対応する値を返します。個別の有効期限切れは未登録として扱います。
func (c *LRUCache) Get(key string) (any, bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.lru.Remove(key)
		return nil, false
	}
	return e.value, true
}

// Set は値を保存します。d が 0 以下の場合は maxTTL のみが適用されます。
func (c *LRUCache) Set(key string, value any, d time.Duration) {
	e := cacheEntry{value: value}
	if d > 0 {
		e.expiresAt = c.now().Add(d)
	}
	c.lru.Add(key, e)
}

// Len は保持件数を返します。
func (c *LRUCache) Len() int {
	return c.lru.Len()
}
