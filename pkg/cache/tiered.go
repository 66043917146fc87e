package cache

import (
	"context"
	"errors"
	"time"
)

// DefaultFastTTL bounds how long entries stay in the fast tier.
const DefaultFastTTL = 24 * time.Hour

// TieredCache reads through a fast cache (Redis) to a durable one
// (MongoDB). Hits in the durable tier are copied into the fast tier.
// Errors from the fast tier are treated as misses.
type TieredCache struct {
	fast    Cache
	durable Cache
	fastTTL time.Duration
}

// NewTieredCache combines two caches. A fastTTL of zero uses DefaultFastTTL.
func NewTieredCache(fast, durable Cache, fastTTL time.Duration) *TieredCache {
	if fastTTL <= 0 {
		fastTTL = DefaultFastTTL
	}
	return &TieredCache{fast: fast, durable: durable, fastTTL: fastTTL}
}

// Get checks the fast tier, then the durable tier.
func (c *TieredCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if data, hit, err := c.fast.Get(ctx, key); err == nil && hit {
		return data, true, nil
	}
	data, hit, err := c.durable.Get(ctx, key)
	if err != nil || !hit {
		return nil, false, err
	}
	_ = c.fast.Set(ctx, key, data, c.fastTTL)
	return data, true, nil
}

// Set writes the durable tier first, then the fast tier.
func (c *TieredCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.durable.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	_ = c.fast.Set(ctx, key, data, c.fastExpiry(ttl))
	return nil
}

func (c *TieredCache) fastExpiry(ttl time.Duration) time.Duration {
	if ttl > 0 && ttl < c.fastTTL {
		return ttl
	}
	return c.fastTTL
}

// Delete removes key from both tiers.
func (c *TieredCache) Delete(ctx context.Context, key string) error {
	return errors.Join(c.fast.Delete(ctx, key), c.durable.Delete(ctx, key))
}

// Close closes both tiers.
func (c *TieredCache) Close() error {
	return errors.Join(c.fast.Close(), c.durable.Close())
}

var _ Cache = (*TieredCache)(nil)
