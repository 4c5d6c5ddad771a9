// Package cli implements the husksubmit command-line interface.
//
// This package provides commands for inspecting USD render graphs,
// resolving render outputs, submitting scenes to the Deadline farm, and
// serving the same pipeline over HTTP. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/renderkit/husksubmit/pkg/buildinfo"
	"github.com/renderkit/husksubmit/pkg/cache"
	"github.com/renderkit/husksubmit/pkg/config"
	"github.com/renderkit/husksubmit/pkg/deadline"
	"github.com/renderkit/husksubmit/pkg/history"
	"github.com/renderkit/husksubmit/pkg/houdini"
	"github.com/renderkit/husksubmit/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "husksubmit"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "husksubmit sends USD scenes to the Deadline render farm",
		Long:         `husksubmit extracts the render graph from a USD scene file, resolves its render passes and output paths, and submits one Deadline job per pass to be rendered with Houdini's husk.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: XDG config dir)")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	}

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.outputsCommand())
	root.AddCommand(c.submitCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file, falling back to defaults.
func (c *CLI) loadConfig() (*config.Config, error) {
	path := c.ConfigPath
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return config.Default(), nil
		}
		path = filepath.Join(dir, appName+".toml")
	}
	return config.Load(path)
}

// newRunner assembles a pipeline runner from the config.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, func(), error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	dumpCache, err := newCache(ctx, cfg, noCache)
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		dumpCache = cache.NewNullCache()
	}

	husk, err := houdini.FindExecutable(cfg.Houdini.SearchList, cfg.Houdini.Version)
	if err != nil {
		_ = dumpCache.Close()
		return nil, nil, err
	}
	usdcat, err := houdini.UsdcatFor(husk)
	if err != nil {
		_ = dumpCache.Close()
		return nil, nil, err
	}
	dumper := houdini.NewDumper(usdcat,
		houdini.WithCache(dumpCache, cfg.Cache.TTL.Value(24*time.Hour)))

	store, err := c.newHistoryStore(ctx, cfg)
	if err != nil {
		c.Logger.Warn("history disabled", "error", err)
		store = history.NewNullStore()
	}

	runner := pipeline.NewRunner(dumper,
		deadline.NewSubmitter(cfg.Deadline.CommandPath), store, c.Logger)
	cleanup := func() {
		_ = dumpCache.Close()
		_ = store.Close(context.Background())
	}
	return runner, cleanup, nil
}

func (c *CLI) newHistoryStore(ctx context.Context, cfg *config.Config) (history.Store, error) {
	switch cfg.History.Backend {
	case "none":
		return history.NewNullStore(), nil
	case "mongo":
		return history.NewMongoStore(ctx, cfg.History.MongoURI, cfg.History.MongoDB)
	default:
		path := cfg.History.Path
		if path == "" {
			dir, err := cacheDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "history.jsonl")
		}
		return history.NewFileStore(path)
	}
}

func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Backend == "none" {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.Backend == "redis" {
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, "", cfg.Cache.RedisDB)
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/husksubmit/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/husksubmit/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
