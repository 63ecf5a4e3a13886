// Package cli implements the seqgrid command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqgrid/pkg/buildinfo"
	"github.com/matzehuels/seqgrid/pkg/cache"
	"github.com/matzehuels/seqgrid/pkg/config"
	"github.com/matzehuels/seqgrid/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "seqgrid"
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
	cfg        config.Config
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. RootCommand replaces the configuration before any command
// runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the configuration in effect.
func (c *CLI) Config() config.Config { return c.cfg }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Seqgrid lays out genome sequences as pixel grids",
		Long: `Seqgrid lays out genome sequences as hierarchical pixel grids: lines of
nucleotides packed into columns, rows, tiles and pages, with padding and
titles between contigs so every chromosome starts on a clean boundary.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/seqgrid/seqgrid.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.levelsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.curveCommand())
	root.AddCommand(c.parallelCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file, or the default one when it exists.
func (c *CLI) loadConfig() error {
	cfg, path, err := config.Discover(c.configPath)
	if err != nil {
		return err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, keyer, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

// newCache opens the configured cache backend. An unreachable Redis is not
// fatal for the CLI; it falls back to running uncached.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	if noCache {
		return cache.NewNullCache(), nil, nil
	}
	cc := c.cfg.Cache
	switch cc.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil, nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, running uncached", "addr", cc.RedisAddr, "error", err)
			return cache.NewNullCache(), nil, nil
		}
		var keyer cache.Keyer
		if cc.Prefix != "" {
			keyer = cache.NewScopedKeyer(nil, cc.Prefix)
		}
		return rc, keyer, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache %s: %w", dir, err)
	}
	return fc, nil, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory (~/.cache/seqgrid/ unless
// configured otherwise).
func (c *CLI) cacheDir() (string, error) {
	return c.cfg.CacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options carrying the configuration file.
// Flags bound to the returned value override it.
func (c *CLI) baseOptions() pipeline.Options {
	opts := pipeline.FromConfig(c.cfg)
	opts.Logger = c.Logger
	return opts
}
