// Package cache stores computed outlines between runs.
//
// A conversion is a pure function of the concept map and the build options,
// so its result can be reused whenever both are unchanged. The CLI keeps
// results in a [FileCache] under the user cache directory, or in a shared
// [RedisCache] when one is configured; [NullCache] disables caching.
//
// Keys are produced by a [Keyer] from a content hash of the map (see
// [Hash]) and the options that influence the result. Values are opaque
// bytes; callers choose the encoding.
package cache

import (
	"context"
	"time"
)

// TTLOutline is how long converted outlines stay valid.
const TTLOutline = 7 * 24 * time.Hour

// Cache is a byte store keyed by string.
//
// Get reports a miss with ok == false and a nil error; errors are reserved
// for storage failures. A ttl of zero means the entry never expires.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
