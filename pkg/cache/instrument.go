package cache

import (
	"context"
	"strings"
	"time"

	"github.com/dashfin/assetgraph/pkg/observability"
)

// InstrumentedCache wraps a Cache and reports hits, misses and writes to
// the registered cache hooks. The key type reported is the key's prefix up
// to the first colon, so hashed keys stay out of hook payloads.
type InstrumentedCache struct {
	inner Cache
}

// NewInstrumented wraps a cache with hook instrumentation.
func NewInstrumented(inner Cache) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &InstrumentedCache{inner: inner}
}

func keyType(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}

// Get retrieves a value and reports hit or miss.
func (c *InstrumentedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.inner.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, hit, err
}

// Set stores a value and reports the write.
func (c *InstrumentedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.inner.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

// Delete removes a value.
func (c *InstrumentedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Close closes the wrapped cache.
func (c *InstrumentedCache) Close() error {
	return c.inner.Close()
}

// Ensure InstrumentedCache implements Cache.
var _ Cache = (*InstrumentedCache)(nil)
