// Package config loads kmltool settings.
//
// Settings come from three layers, later ones winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/kmltool/config.toml
//  3. KMLTOOL_* environment variables, including those set by a .env file
//     in the working directory
//
// Command-line flags are applied on top by the CLI.
//
// A complete file:
//
//	[export]
//	threshold = 5242880   # bytes of KML per archive in maps mode
//	mode = "earth"        # "earth" or "maps"
//	doc_name = ""         # document entry name for new archives
//
//	[convert]
//	crs = "EPSG:21781"
//
//	[cache]
//	dir = "~/.cache/kmltool"
//	disabled = false
//	ttl = "168h"
//
//	[log]
//	level = "info"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/kmltool/pkg/cache"
	"github.com/matzehuels/kmltool/pkg/convert"
	apperr "github.com/matzehuels/kmltool/pkg/errors"
	"github.com/matzehuels/kmltool/pkg/export"
	"github.com/matzehuels/kmltool/pkg/pipeline"
)

const appName = "kmltool"

// Environment variables read by [Load].
const (
	EnvThreshold = "KMLTOOL_THRESHOLD"
	EnvMode      = "KMLTOOL_MODE"
	EnvDocName   = "KMLTOOL_DOC_NAME"
	EnvCRS       = "KMLTOOL_CRS"
	EnvCacheDir  = "KMLTOOL_CACHE_DIR"
	EnvNoCache   = "KMLTOOL_NO_CACHE"
	EnvCacheTTL  = "KMLTOOL_CACHE_TTL"
	EnvLogLevel  = "KMLTOOL_LOG_LEVEL"
)

// Config holds all settings.
type Config struct {
	Export  Export  `toml:"export"`
	Convert Convert `toml:"convert"`
	Cache   Cache   `toml:"cache"`
	Log     Log     `toml:"log"`
}

// Export configures archive output.
type Export struct {
	Threshold int    `toml:"threshold"`
	Mode      string `toml:"mode"`
	DocName   string `toml:"doc_name"`
}

// Convert configures drawing conversion.
type Convert struct {
	CRS string `toml:"crs"`
}

// Cache configures the conversion cache.
type Cache struct {
	Dir      string        `toml:"dir"`
	Disabled bool          `toml:"disabled"`
	TTL      time.Duration `toml:"ttl"`
}

// Log configures the CLI logger.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Export:  Export{Threshold: export.DefaultThreshold, Mode: pipeline.ModeEarth},
		Convert: Convert{CRS: convert.DefaultCRS},
		Cache:   Cache{Dir: DefaultCacheDir(), TTL: cache.DefaultTTL},
		Log:     Log{Level: "info"},
	}
}

// Load reads the configuration. An empty path reads the default file if it
// exists; a path given explicitly must exist. The result is validated.
func Load(path string) (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.decodeFile(path, explicit); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "invalid configuration")
	}
	return cfg, nil
}

// LoadDotEnv loads the given .env files, or ./.env when none are given.
// Missing files are skipped. Variables already set are not overridden.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "could not load %s", f)
		}
	}
	return nil
}

func (c *Config) decodeFile(path string, required bool) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return apperr.Wrap(apperr.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "could not parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return apperr.New(apperr.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := getEnv(EnvThreshold, ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "%s must be a number of bytes", EnvThreshold)
		}
		c.Export.Threshold = n
	}
	c.Export.Mode = getEnv(EnvMode, c.Export.Mode)
	c.Export.DocName = getEnv(EnvDocName, c.Export.DocName)
	c.Convert.CRS = getEnv(EnvCRS, c.Convert.CRS)
	c.Cache.Dir = getEnv(EnvCacheDir, c.Cache.Dir)
	if v := getEnv(EnvNoCache, ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "%s must be true or false", EnvNoCache)
		}
		c.Cache.Disabled = b
	}
	if v := getEnv(EnvCacheTTL, ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "%s must be a duration such as 24h", EnvCacheTTL)
		}
		c.Cache.TTL = d
	}
	c.Log.Level = getEnv(EnvLogLevel, c.Log.Level)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns $XDG_CONFIG_HOME/kmltool/config.toml, falling back to
// ~/.config. It returns "" when no home directory is known.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// DefaultCacheDir returns the cache directory using the XDG standard
// (~/.cache/kmltool/).
func DefaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", appName)
}
