// Package config loads seqgrid.toml.
//
// Values are resolved in three layers: built-in defaults, then the config
// file, then command-line flags (applied by the CLI). A file only needs the
// keys it changes:
//
//	[layout]
//	base_width = 50
//	skip_small_titles = true
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/seqgrid/pkg/errors"
	"github.com/matzehuels/seqgrid/pkg/layout"
	"github.com/matzehuels/seqgrid/pkg/tile"
)

const (
	appName  = "seqgrid"
	fileName = "seqgrid.toml"
)

// Backend names.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"

	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

// Config is the whole configuration file.
type Config struct {
	Layout  Layout  `toml:"layout"`
	Curve   Curve   `toml:"curve"`
	Render  Render  `toml:"render"`
	Cache   Cache   `toml:"cache"`
	Storage Storage `toml:"storage"`
	Server  Server  `toml:"server"`
}

// Layout configures the tiled frame and the padding allocator.
type Layout struct {
	BaseWidth   int64 `toml:"base_width"`
	BorderWidth int64 `toml:"border_width"`

	// Custom replaces the default hierarchy, written as
	// "([modulos...],[paddings...])".
	Custom string `toml:"custom"`

	NoTitles              bool  `toml:"no_titles"`
	SkipSmallTitles       bool  `toml:"skip_small_titles"`
	SortBySize            bool  `toml:"sort_by_size"`
	SmallTitleThreshold   int64 `toml:"small_title_threshold"`
	ManySegmentsThreshold int   `toml:"many_segments_threshold"`
}

// Curve configures the space-filling curve.
type Curve struct {
	XRadices []int `toml:"x_radices"`
	YRadices []int `toml:"y_radices"`
	Gap      int   `toml:"gap"`
}

// Render configures image output.
type Render struct {
	Palette string `toml:"palette"`
	Titles  bool   `toml:"titles"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
}

// Storage selects where the server keeps layouts.
type Storage struct {
	Backend  string `toml:"backend"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Server configures the HTTP API.
type Server struct {
	Addr           string        `toml:"addr"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	MaxBodyBytes   int64         `toml:"max_body_bytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: Layout{
			BaseWidth:             layout.DefaultBaseWidth,
			BorderWidth:           layout.DefaultBorderWidth,
			SmallTitleThreshold:   tile.DefaultSmallTitleThreshold,
			ManySegmentsThreshold: tile.DefaultManySegmentsThreshold,
		},
		Curve: Curve{
			XRadices: []int{3, 3, 3, 3, 3, 3, 3},
			YRadices: []int{3, 3, 3, 3, 3, 3, 3},
			Gap:      1,
		},
		Render: Render{
			Palette: "classic",
			Titles:  true,
		},
		Cache: Cache{
			Backend: CacheFile,
		},
		Storage: Storage{
			Backend:  StorageMemory,
			Database: appName,
		},
		Server: Server{
			Addr:           ":8080",
			RequestTimeout: 60 * time.Second,
			MaxBodyBytes:   8 << 20,
		},
	}
}

// Load reads path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidConfig,
			"%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads explicit when it is set. Otherwise it loads the file at
// DefaultPath if one exists, and falls back to Default. The returned path
// is empty when no file was read.
func Discover(explicit string) (Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}
	path, err := DefaultPath()
	if err != nil {
		return Default(), "", nil
	}
	if _, err := os.Stat(path); err != nil {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// DefaultPath returns $XDG_CONFIG_HOME/seqgrid/seqgrid.toml, or the same
// below ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// CacheDir returns the file cache directory: Cache.Dir when set, else
// $XDG_CACHE_HOME/seqgrid or ~/.cache/seqgrid.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Validate checks value ranges and backend names.
func (c Config) Validate() error {
	switch {
	case c.Layout.BaseWidth <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.base_width must be positive")
	case c.Layout.BorderWidth < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.border_width must not be negative")
	case c.Curve.Gap < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "curve.gap must not be negative")
	}
	if c.Layout.Custom != "" {
		if _, _, err := layout.ParseCustomLayout(c.Layout.Custom); err != nil {
			return fmt.Errorf("layout.custom: %w", err)
		}
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache.backend %q", c.Cache.Backend)
	}
	switch c.Storage.Backend {
	case StorageMemory:
	case StorageMongo:
		if c.Storage.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "storage.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown storage.backend %q", c.Storage.Backend)
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
