package catalog

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache stores serialized catalog payloads in Redis with a TTL. When no
// Redis client is configured it degrades to an in-process map with the
// same expiry semantics.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration

	mu  sync.Mutex
	mem map[string]memEntry
}

type memEntry struct {
	payload   []byte
	expiresAt time.Time
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{Client: client, TTL: ttl, mem: make(map[string]memEntry)}
}

// Get unmarshals a cached payload into out, reporting whether a fresh
// entry existed. Cache errors behave like misses.
func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	if c.Client != nil {
		payload, err := c.Client.Get(ctx, key).Result()
		if err == redis.Nil || err != nil {
			return false
		}
		return json.Unmarshal([]byte(payload), out) == nil
	}

	c.mu.Lock()
	entry, ok := c.mem[key]
	c.mu.Unlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return false
	}
	return json.Unmarshal(entry.payload, out) == nil
}

// Set stores a payload under the cache TTL; failures are swallowed, the
// catalogs reload from the store next time.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}

	if c.Client != nil {
		c.Client.Set(ctx, key, payload, c.TTL)
		return
	}

	c.mu.Lock()
	c.mem[key] = memEntry{payload: payload, expiresAt: time.Now().Add(c.TTL)}
	c.mu.Unlock()
}
