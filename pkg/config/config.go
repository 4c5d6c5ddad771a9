// Package config loads husksubmit settings from a TOML file.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/renderkit/husksubmit/pkg/errors"
	"github.com/renderkit/husksubmit/pkg/houdini"
)

// Config holds everything that varies between studios and workstations.
type Config struct {
	Houdini  HoudiniConfig  `toml:"houdini"`
	Deadline DeadlineConfig `toml:"deadline"`
	Cache    CacheConfig    `toml:"cache"`
	History  HistoryConfig  `toml:"history"`
}

// HoudiniConfig locates the Houdini install on this machine.
type HoudiniConfig struct {
	// SearchList is a ";"-separated list of husk candidate paths; XX.X.XXX
	// in a candidate is replaced with Version before probing.
	SearchList string `toml:"search_list"`
	Version    string `toml:"version"`
}

// DeadlineConfig configures farm submission.
type DeadlineConfig struct {
	CommandPath string   `toml:"command_path"`
	Renderers   []string `toml:"renderers"`
	ChunkSize   int      `toml:"chunk_size"`
	LogLevel    int      `toml:"log_level"`
}

// CacheConfig selects the dump-text cache backend.
type CacheConfig struct {
	// Backend is "file", "redis", or "none".
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	TTL       duration `toml:"ttl"`
}

// HistoryConfig selects the submission history backend.
type HistoryConfig struct {
	// Backend is "file", "mongo", or "none".
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	MongoURI string `toml:"mongo_uri"`
	MongoDB  string `toml:"mongo_db"`
}

// duration lets TTLs be written as "24h" in the config file.
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// Value returns the duration, or fallback when unset.
func (d duration) Value(fallback time.Duration) time.Duration {
	if d == 0 {
		return fallback
	}
	return time.Duration(d)
}

// Default returns the built-in configuration used when no file exists.
func Default() *Config {
	return &Config{
		Houdini: HoudiniConfig{
			SearchList: houdini.DefaultSearchList(),
		},
		Deadline: DeadlineConfig{
			CommandPath: "deadlinecommand",
			Renderers:   []string{"BRAY_HdKarmaXPU", "BRAY_HdKarma"},
			ChunkSize:   5,
		},
		Cache: CacheConfig{
			Backend: "file",
		},
		History: HistoryConfig{
			Backend: "file",
		},
	}
}

// Load reads a config file and overlays it on the defaults. A missing file
// is not an error; the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "", "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.History.Backend {
	case "", "file", "mongo", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown history backend %q", c.History.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis needs redis_addr")
	}
	if c.History.Backend == "mongo" && c.History.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "history backend mongo needs mongo_uri")
	}
	if c.Deadline.ChunkSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "chunk_size must not be negative")
	}
	return nil
}
