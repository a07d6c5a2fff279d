package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// unreachableRedis returns a cache whose client dials a port nothing
// listens on, so every command fails fast.
func unreachableRedis(t *testing.T) Cache {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 10 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCacheFromClient(client)
	t.Cleanup(func() { c.Close() })
	return c
}

// A failed command enters the retry loop instead of returning the dial
// error directly, so a short deadline surfaces as the context error.
func TestRedisCacheRetriesTransientErrors(t *testing.T) {
	c := unreachableRedis(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, _, err := c.Get(ctx, "key"); err != context.DeadlineExceeded {
		t.Errorf("Get err = %v, want context.DeadlineExceeded", err)
	}

	ctx2, cancel2 := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel2()

	if err := c.Set(ctx2, "key", []byte("{}"), 0); err != context.DeadlineExceeded {
		t.Errorf("Set err = %v, want context.DeadlineExceeded", err)
	}
}
