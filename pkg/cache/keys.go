package cache

import (
	"context"
	"io/fs"
	"os"
	"time"
)

// DumpKey builds a cache key for flattened dump text produced from the
// scene file at path. The key covers the file's absolute path, size, and
// modification time, so any edit to the scene invalidates the entry.
func DumpKey(path string, info fs.FileInfo) string {
	return fileKey("dump", path, info)
}

// MetadataKey builds a cache key for unflattened layer metadata text.
func MetadataKey(path string, info fs.FileInfo) string {
	return fileKey("meta", path, info)
}

// StatKey stats path and builds the key in one step.
func StatKey(prefix, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return fileKey(prefix, path, info), nil
}

func fileKey(prefix, path string, info fs.FileInfo) string {
	return hashKey(prefix, path, info.Size(), info.ModTime().UnixNano())
}

// Scoped returns a key derived from key with a namespace prefix.
// Useful when one backend is shared between hosts or users.
type Scoped struct {
	Inner  Cache
	Prefix string
}

// NewScoped wraps inner so every key gets the given prefix.
func NewScoped(inner Cache, prefix string) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &Scoped{Inner: inner, Prefix: prefix}
}

// Get retrieves a value under the prefixed key.
func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.Inner.Get(ctx, s.Prefix+key)
}

// Set stores a value under the prefixed key.
func (s *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.Inner.Set(ctx, s.Prefix+key, data, ttl)
}

// Delete removes the prefixed key.
func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.Inner.Delete(ctx, s.Prefix+key)
}

// Close closes the wrapped cache.
func (s *Scoped) Close() error {
	return s.Inner.Close()
}

var _ Cache = (*Scoped)(nil)
