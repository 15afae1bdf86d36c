package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache provides typed caching for fetched raw data. Values are stored as
// JSON under <prefix>:cache:<kind>:<id> with a TTL. A bypass flag skips
// reads (force refresh) while still writing fresh values back.
type Cache struct {
	client *Client
	prefix string
	ttl    time.Duration
	bypass bool
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// WithBypass returns a cache that skips reads but still stores results.
func (c *Cache) WithBypass(bypass bool) *Cache {
	return &Cache{
		client: c.client,
		prefix: c.prefix,
		ttl:    c.ttl,
		bypass: bypass,
	}
}

func (c *Cache) key(kind, id string) string {
	return fmt.Sprintf("%s:cache:%s:%s", c.prefix, kind, id)
}

// Get retrieves a cached value. Returns false on miss, bypass, or when
// Redis is disabled.
func (c *Cache) Get(ctx context.Context, kind, id string, dest interface{}) (bool, error) {
	if !c.client.Enabled() || c.bypass {
		return false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.key(kind, id)).Bytes()
	if err != nil {
		// Key not found is not an error
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with the configured TTL
func (c *Cache) Set(ctx context.Context, kind, id string, value interface{}) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	return c.client.Redis().Set(ctx, c.key(kind, id), data, c.ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, kind, id string) error {
	if !c.client.Enabled() {
		return nil
	}

	return c.client.Redis().Del(ctx, c.key(kind, id)).Err()
}

// Clear removes all cached values under this cache's prefix
func (c *Cache) Clear(ctx context.Context) error {
	if !c.client.Enabled() {
		return nil
	}

	rdb := c.client.Redis()
	iter := rdb.Scan(ctx, 0, fmt.Sprintf("%s:cache:*", c.prefix), 100).Iterator()
	for iter.Next(ctx) {
		if err := rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// Data kinds stored by the fetch layer
const (
	KindCompanies  = "companies"  // per-exchange listing
	KindFinancials = "financials" // per-ticker statement bundle
)
