package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Cache is an in-memory map that lives for one run.
type Cache struct {
	mu    sync.RWMutex
	items map[string]interface{}
}

func New() *Cache {
	return &Cache{
		items: make(map[string]interface{}),
	}
}

func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, exists := c.items[key]
	return v, exists
}

// GenerateKey hashes the exact text. Texts differing only in whitespace
// get different keys.
func (c *Cache) GenerateKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
