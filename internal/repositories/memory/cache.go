package memory

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Cache is an in-process cache gateway. TTLs are recorded but not enforced.
type Cache struct {
	mu      sync.Mutex
	entries map[string]string
	ttls    map[string]time.Duration

	// Err, when set, is returned by every operation.
	Err error
	// OnDelete runs for every DelPattern/Del call with the prefix or key.
	OnDelete func(target string)
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (c *Cache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return "", false, c.Err
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *Cache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *Cache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	if c.Err != nil {
		c.mu.Unlock()
		return c.Err
	}
	for _, k := range keys {
		delete(c.entries, k)
		delete(c.ttls, k)
	}
	c.mu.Unlock()
	for _, k := range keys {
		c.deleted(k)
	}
	return nil
}

func (c *Cache) DelPattern(_ context.Context, prefix string) error {
	c.mu.Lock()
	if c.Err != nil {
		c.mu.Unlock()
		return c.Err
	}
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			delete(c.ttls, k)
		}
	}
	c.mu.Unlock()
	c.deleted(prefix)
	return nil
}

// Acquire sets key to token unless it is already present.
func (c *Cache) Acquire(_ context.Context, key, token string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return false, c.Err
	}
	if _, held := c.entries[key]; held {
		return false, nil
	}
	c.entries[key] = token
	c.ttls[key] = ttl
	return true, nil
}

// Release deletes key if it still holds token.
func (c *Cache) Release(_ context.Context, key, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	if c.entries[key] == token {
		delete(c.entries, key)
		delete(c.ttls, key)
	}
	return nil
}

// Has reports whether key is currently cached.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// TTL returns the ttl key was stored with.
func (c *Cache) TTL(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttls[key]
}

func (c *Cache) deleted(target string) {
	if c.OnDelete != nil {
		c.OnDelete(target)
	}
}
