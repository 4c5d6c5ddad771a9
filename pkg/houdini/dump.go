package houdini

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/renderkit/husksubmit/pkg/cache"
	"github.com/renderkit/husksubmit/pkg/errors"
	"github.com/renderkit/husksubmit/pkg/observability"
)

// Dumper produces text dumps of USD scene files by shelling out to usdcat.
// Dump text may be cached keyed by the scene file's path, size, and mtime;
// callers always re-parse the text, so a stale parse can never be served.
type Dumper struct {
	usdcatPath string
	cache      cache.Cache
	ttl        time.Duration
}

// DumperOption configures a Dumper.
type DumperOption func(*Dumper)

// WithCache enables dump-text caching with the given backend and TTL.
func WithCache(c cache.Cache, ttl time.Duration) DumperOption {
	return func(d *Dumper) {
		d.cache = c
		d.ttl = ttl
	}
}

// NewDumper creates a Dumper using the usdcat binary at usdcatPath.
func NewDumper(usdcatPath string, opts ...DumperOption) *Dumper {
	d := &Dumper{
		usdcatPath: usdcatPath,
		cache:      cache.NewNullCache(),
		ttl:        24 * time.Hour,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Flatten returns the flattened dump of the /Render subtree of scenePath.
// Composition arcs are resolved so the dump reflects the final opinions
// the renderer would see.
func (d *Dumper) Flatten(ctx context.Context, scenePath string) (string, error) {
	return d.run(ctx, scenePath, "dump", "--flatten", "--mask", "/Render", scenePath)
}

// LayerMetadata returns the unflattened layer preamble of scenePath,
// which carries authored startTimeCode and endTimeCode.
func (d *Dumper) LayerMetadata(ctx context.Context, scenePath string) (string, error) {
	return d.run(ctx, scenePath, "meta", "--layerMetadata", scenePath)
}

func (d *Dumper) run(ctx context.Context, scenePath, keyPrefix string, args ...string) (string, error) {
	info, err := os.Stat(scenePath)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "scene file not found: %s", scenePath)
	}

	key := cacheKey(keyPrefix, scenePath, info)
	if text, ok := d.cachedText(ctx, key); ok {
		observability.Cache().OnCacheHit(ctx, keyPrefix)
		return text, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyPrefix)

	cmd := exec.CommandContext(ctx, d.usdcatPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := "usdcat failed for " + scenePath
		if s := strings.TrimSpace(stderr.String()); s != "" {
			msg += ": " + s
		}
		return "", errors.Wrap(errors.ErrCodeDumpFailed, err, "%s", msg)
	}

	text := stdout.String()
	// Cache failures are not fatal; the dump is already in hand.
	if err := d.cache.Set(ctx, key, []byte(text), d.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, keyPrefix, len(text))
	}
	return text, nil
}

func (d *Dumper) cachedText(ctx context.Context, key string) (string, bool) {
	data, hit, err := d.cache.Get(ctx, key)
	if err != nil || !hit {
		return "", false
	}
	return string(data), true
}

func cacheKey(prefix, path string, info os.FileInfo) string {
	if prefix == "meta" {
		return cache.MetadataKey(path, info)
	}
	return cache.DumpKey(path, info)
}
