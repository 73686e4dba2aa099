// Package cli implements the htbuild command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/musicscience37/htbuild/internal/config"
	"github.com/musicscience37/htbuild/pkg/buildinfo"
	"github.com/musicscience37/htbuild/pkg/cache"
	"github.com/musicscience37/htbuild/pkg/errors"
	"github.com/musicscience37/htbuild/pkg/installer"
	"github.com/musicscience37/htbuild/pkg/recipe"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and cache key prefixes.
	appName = "htbuild"

	// redisPrefix namespaces package records in a shared Redis.
	redisPrefix = appName + ":"
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

	// Out receives human-readable command output. Defaults to os.Stdout.
	Out io.Writer

	// Runner executes the resolution tool. Defaults to an ExecRunner with
	// inherited stdio.
	Runner installer.Runner

	root        string
	recipeFile  string
	revision    int
	verbose     bool
	metricsPath string
	cfg         config.Config
	metrics     *prom.Registry
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Runner: installer.ExecRunner{},
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "htbuild provisions the build environment of cpp_hash_tables",
		Long: `htbuild installs the dependencies of the header-only cpp_hash_tables library
through Conan, one build directory per build type, and exposes the package
recipe (metadata, requirements, packaging and identity rules).`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, err := config.Load(c.root)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.registerHooks()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)

	flags := root.PersistentFlags()
	flags.StringVar(&c.root, "root", ".", "project root directory")
	flags.StringVar(&c.recipeFile, "recipe", "", "load the recipe from a TOML file instead of the built-in one")
	flags.IntVar(&c.revision, "revision", 0, "built-in recipe revision (default latest)")
	flags.StringVar(&c.metricsPath, "metrics-file", "", "write Prometheus metrics to this file on exit")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	// Register all subcommands
	root.AddCommand(c.installCommand())
	root.AddCommand(c.recipeCommand())
	root.AddCommand(c.packageCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Recipe & Cache Factories
// =============================================================================

// loadRecipe resolves the recipe from --recipe, the config file, --revision,
// or the built-in default, in that order.
func (c *CLI) loadRecipe() (*recipe.Recipe, error) {
	path := c.recipeFile
	if path == "" && c.cfg.Recipe != "" {
		path = filepath.Join(c.root, filepath.FromSlash(c.cfg.Recipe))
	}
	if path != "" {
		if c.revision != 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--revision cannot be combined with a recipe file")
		}
		return recipe.Load(path)
	}

	revision := c.revision
	if revision == 0 {
		revision = c.cfg.Revision
	}
	if revision == 0 {
		return recipe.Default(), nil
	}
	return recipe.ByRevision(revision)
}

// newCache opens the configured package cache backend.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.cfg.Cache.RedisAddr, redisPrefix)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "open package cache")
		}
		return rc, nil
	case config.BackendNone:
		return cache.NewNullCache(), nil
	default:
		fc, err := cache.NewFileCache(c.cfg.Cache.Dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileSystem, err, "open package cache")
		}
		return fc, nil
	}
}
