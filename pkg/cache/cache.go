// Package cache provides byte-oriented caches used to avoid repeated
// usdcat invocations. Only raw dump text is ever cached; parsed render
// graphs are rebuilt from the text on every use.
package cache

import (
	"context"
	"time"
)

// Cache is the interface all cache backends implement.
// Get returns (data, hit, error); a miss is not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
