// Package cli implements the qlabel command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/qlabel/pkg/buildinfo"
	"github.com/matzehuels/qlabel/pkg/cache"
	"github.com/matzehuels/qlabel/pkg/config"
	"github.com/matzehuels/qlabel/pkg/history"
	"github.com/matzehuels/qlabel/pkg/label"
	"github.com/matzehuels/qlabel/pkg/pipeline"
	"github.com/matzehuels/qlabel/pkg/printer"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "qlabel"

	// envConfig names the config file when --config is not given.
	envConfig = "QLABEL_CONFIG"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
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
		Short:        "qlabel lays out and prints text labels on Brother QL printers",
		Long:         `qlabel turns text into label bitmaps for Brother QL printers. It serves an HTTP API for previews and print jobs and offers the same pipeline on the command line.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default $"+envConfig+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.printCommand())
	root.AddCommand(c.sizesCommand())
	root.AddCommand(c.fontsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the config file named by --config or $QLABEL_CONFIG and
// falls back to the built-in defaults. Unless --verbose is set, the
// server.log_level setting becomes the logger's level.
func (c *CLI) loadConfig() (*config.Config, error) {
	path := c.configPath
	if path == "" {
		path = os.Getenv(envConfig)
	}

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
		c.Logger.Debug("loaded config", "path", path)
	}

	if !c.verbose {
		level, err := log.ParseLevel(cfg.Server.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("server.log_level: %w", err)
		}
		c.SetLogLevel(level)
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOptions override config settings from the command line.
type runnerOptions struct {
	noCache bool
	dryRun  bool
	spool   string
}

// newRunner builds a pipeline runner with the backends selected in cfg.
// The caller must Close the runner.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, opts runnerOptions) (*pipeline.Runner, error) {
	table, err := cfg.FontTable(c.Logger)
	if err != nil {
		return nil, err
	}

	backend := cfg.Cache.Backend
	if opts.noCache {
		backend = config.CacheNone
	}
	store, keyer, err := c.newCache(ctx, cfg, backend)
	if err != nil {
		return nil, err
	}

	r := pipeline.NewRunner(label.NewResolver(table, nil), store, keyer, c.Logger)
	r.CacheTTL = cfg.Cache.TTL.Duration
	r.Printer = printer.Options{Model: cfg.Printer.Model, Printer: cfg.Printer.Printer}
	r.DryRun = cfg.Printer.DryRun || opts.dryRun

	spool := cfg.Printer.Spool
	if opts.spool != "" {
		spool = opts.spool
	}
	if r.Spooler, err = c.newSpooler(cfg, spool); err != nil {
		_ = r.Close(ctx)
		return nil, err
	}
	if r.History, err = c.newHistory(ctx, cfg); err != nil {
		_ = r.Close(ctx)
		return nil, err
	}
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, cfg *config.Config, backend string) (cache.Cache, cache.Keyer, error) {
	switch backend {
	case config.CacheFile:
		dir := cfg.Cache.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return nil, nil, fmt.Errorf("get cache dir: %w", err)
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Debug("preview cache", "backend", backend, "dir", dir)
		return fc, nil, nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Debug("preview cache", "backend", backend, "addr", cfg.Redis.Addr)
		return rc, cache.NewScopedKeyer(nil, appName+":"), nil
	default:
		return cache.NewNullCache(), nil, nil
	}
}

func (c *CLI) newSpooler(cfg *config.Config, backend string) (printer.Spooler, error) {
	var (
		s   printer.Spooler
		err error
	)
	switch backend {
	case config.SpoolRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s = printer.NewRedisSpooler(client, cfg.Printer.Queue)
	case config.SpoolDir:
		s, err = printer.NewDirSpooler(cfg.Printer.SpoolDir)
	case config.SpoolNone:
		s = printer.NullSpooler{}
	default:
		return nil, fmt.Errorf("unknown spool backend %q", backend)
	}
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("spooler", "target", s)
	return s, nil
}

func (c *CLI) newHistory(ctx context.Context, cfg *config.Config) (history.Store, error) {
	if cfg.History.Backend == config.HistoryMongo {
		return history.NewMongoStore(ctx, history.MongoOptions{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
	}
	return history.NewMemoryStore(cfg.History.Capacity), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/qlabel/).
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
