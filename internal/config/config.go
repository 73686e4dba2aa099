// Package config loads htbuild settings.
//
// Values are layered, later sources winning:
//
//  1. built-in defaults
//  2. htbuild.toml in the project root, if present
//  3. HTBUILD_* variables from a .env file in the project root, if present
//  4. HTBUILD_* environment variables
//
// Command-line flags are applied on top by the CLI.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/musicscience37/htbuild/pkg/errors"
)

// FileName is the optional per-project configuration file.
const FileName = "htbuild.toml"

// DotEnvName is the optional per-project environment file.
const DotEnvName = ".env"

const appName = "htbuild"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Environment variables read by [Load].
const (
	EnvTool         = "HTBUILD_TOOL"
	EnvRecipe       = "HTBUILD_RECIPE"
	EnvCacheBackend = "HTBUILD_CACHE_BACKEND"
	EnvCacheDir     = "HTBUILD_CACHE_DIR"
	EnvRedisAddr    = "HTBUILD_REDIS_ADDR"
	EnvMetricsFile  = "HTBUILD_METRICS_FILE"
)

// Config is the resolved configuration.
type Config struct {
	// Tool is the dependency-resolution executable.
	Tool string `toml:"tool"`

	// Recipe is an optional TOML recipe file, relative to the project root.
	// Empty means the built-in recipe.
	Recipe string `toml:"recipe"`

	// Revision selects a built-in recipe revision; zero means latest.
	Revision int `toml:"revision"`

	// MetricsFile receives Prometheus metrics in textfile format when set.
	MetricsFile string `toml:"metrics_file"`

	Cache CacheConfig `toml:"cache"`
}

// CacheConfig selects and configures the package cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// Duration decodes TOML strings such as "24h".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Tool: "conan",
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     defaultCacheDir(),
		},
	}
}

// Load resolves configuration for the project at root.
func Load(root string) (Config, error) {
	cfg := Default()

	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); err == nil {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeConfiguration, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, errors.New(errors.ErrCodeConfiguration, "%s: unknown key %s", path, undecoded[0])
		}
	} else if !os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileSystem, err, "stat %s", path)
	}

	dotenv, err := readDotEnv(filepath.Join(root, DotEnvName))
	if err != nil {
		return Config{}, err
	}
	applyEnv(&cfg, dotenv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "parse %s", path)
	}
	return vars, nil
}

// applyEnv overrides cfg from the process environment, falling back to
// dotenv for variables the environment leaves unset or empty.
func applyEnv(cfg *Config, dotenv map[string]string) {
	for env, dst := range map[string]*string{
		EnvTool:         &cfg.Tool,
		EnvRecipe:       &cfg.Recipe,
		EnvCacheBackend: &cfg.Cache.Backend,
		EnvCacheDir:     &cfg.Cache.Dir,
		EnvRedisAddr:    &cfg.Cache.RedisAddr,
		EnvMetricsFile:  &cfg.MetricsFile,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		} else if v := dotenv[env]; v != "" {
			*dst = v
		}
	}
}

// Validate checks backend-specific requirements.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Tool) == "" {
		return errors.New(errors.ErrCodeConfiguration, "tool must not be empty")
	}
	if c.Revision < 0 {
		return errors.New(errors.ErrCodeConfiguration, "revision must not be negative")
	}
	if c.Recipe != "" {
		// The recipe file must stay inside the project root.
		if err := errors.ValidatePath(filepath.ToSlash(c.Recipe)); err != nil {
			return errors.Wrap(errors.ErrCodeConfiguration, err, "recipe %q", c.Recipe)
		}
	}
	switch c.Cache.Backend {
	case BackendFile:
		if c.Cache.Dir == "" {
			return errors.New(errors.ErrCodeConfiguration, "cache.dir is required for the file backend")
		}
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeConfiguration, "cache.redis_addr is required for the redis backend")
		}
	case BackendNone:
	default:
		return errors.New(errors.ErrCodeConfiguration,
			"unknown cache backend %q (want %s, %s or %s)", c.Cache.Backend, BackendFile, BackendRedis, BackendNone)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeConfiguration, "cache.ttl must not be negative")
	}
	return nil
}

// defaultCacheDir returns $XDG_CACHE_HOME/htbuild (~/.cache/htbuild on Linux).
func defaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, appName)
}
