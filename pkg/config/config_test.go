package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/renderkit/husksubmit/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "husksubmit.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Deadline.CommandPath != "deadlinecommand" {
		t.Errorf("unexpected default command path: %s", cfg.Deadline.CommandPath)
	}
	if cfg.Deadline.ChunkSize != 5 {
		t.Errorf("unexpected default chunk size: %d", cfg.Deadline.ChunkSize)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("unexpected default cache backend: %s", cfg.Cache.Backend)
	}
	if cfg.Houdini.SearchList == "" {
		t.Error("default search list should not be empty")
	}
}

func TestLoad_OverlaysFile(t *testing.T) {
	path := writeConfig(t, `
[houdini]
search_list = "/opt/hfsXX.X.XXX/bin/husk;/usr/local/hfs/bin/husk"
version = "20.5.445"

[deadline]
command_path = "/opt/Thinkbox/Deadline10/bin/deadlinecommand"
chunk_size = 10

[cache]
backend = "redis"
redis_addr = "farm-cache:6379"
ttl = "48h"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Houdini.Version != "20.5.445" {
		t.Errorf("unexpected version: %s", cfg.Houdini.Version)
	}
	if cfg.Deadline.ChunkSize != 10 {
		t.Errorf("unexpected chunk size: %d", cfg.Deadline.ChunkSize)
	}
	if cfg.Cache.RedisAddr != "farm-cache:6379" {
		t.Errorf("unexpected redis addr: %s", cfg.Cache.RedisAddr)
	}
	if got := cfg.Cache.TTL.Value(time.Hour); got != 48*time.Hour {
		t.Errorf("unexpected TTL: %v", got)
	}
	// Untouched sections keep defaults.
	if len(cfg.Deadline.Renderers) != 2 {
		t.Errorf("renderer defaults should survive overlay: %v", cfg.Deadline.Renderers)
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	path := writeConfig(t, `
[cache]
backend = "memcached"
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidConfig {
		t.Errorf("unexpected code: %s", errors.GetCode(err))
	}
}

func TestLoad_RedisNeedsAddr(t *testing.T) {
	path := writeConfig(t, `
[cache]
backend = "redis"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("redis backend without address should fail validation")
	}
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := writeConfig(t, `[cache`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidConfig {
		t.Errorf("unexpected code: %s", errors.GetCode(err))
	}
}

func TestDurationValue(t *testing.T) {
	var d duration
	if got := d.Value(time.Hour); got != time.Hour {
		t.Errorf("zero duration should fall back: %v", got)
	}
	if err := d.UnmarshalText([]byte("90m")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if got := d.Value(time.Hour); got != 90*time.Minute {
		t.Errorf("unexpected duration: %v", got)
	}
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("invalid duration should fail")
	}
}
