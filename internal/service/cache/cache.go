package cache

import "time"

// BytesCache stores pre-serialized responses under string keys with a TTL.
// The handler layer caches marshaled JSON, so values are opaque bytes here.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
