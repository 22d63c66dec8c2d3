package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shelflens/backend/internal/domain"
)

// cacheItem is a stored value with its expiration
type cacheItem struct {
	Value      interface{}
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache with TTL support. It backs
// the by-name retrieval memo; contents are process-local and lost on
// restart.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
	stop  chan struct{}
}

// NewMemoryCache creates a memory cache and starts its sweeper, which
// removes expired entries every 10 minutes.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		data: make(map[string]cacheItem),
		stop: make(chan struct{}),
	}
	go c.sweep(10 * time.Minute)
	return c
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || time.Now().After(item.Expiration) {
		return nil, domain.ErrCacheMiss
	}
	return item.Value, nil
}

// Set stores a value with the given TTL. Values are JSON-roundtripped so
// readers always see plain decoded structures, the same as they would from
// an external cache.
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var stored interface{}
	if err := json.Unmarshal(jsonData, &stored); err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data[key] = cacheItem{
		Value:      stored,
		Expiration: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.data, key)
	return nil
}

// Exists checks if a key exists and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || time.Now().After(item.Expiration) {
		return false, nil
	}
	return true, nil
}

// Close stops the background sweeper
func (c *MemoryCache) Close() {
	close(c.stop)
}

// Size returns the current number of items, expired ones included
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

func (c *MemoryCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mutex.Lock()
			now := time.Now()
			for key, item := range c.data {
				if now.After(item.Expiration) {
					delete(c.data, key)
				}
			}
			c.mutex.Unlock()
		}
	}
}
