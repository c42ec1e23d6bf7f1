package repository

import (
	"context"
	"time"
)

// CacheRepository stores serialized values by key. A zero ttl keeps the value
// until it is evicted.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
