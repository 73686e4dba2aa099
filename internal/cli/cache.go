package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/musicscience37/htbuild/internal/config"
	"github.com/musicscience37/htbuild/pkg/cache"
	"github.com/musicscience37/htbuild/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the package cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget all staged package records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Cache.Backend != config.BackendFile {
				return errors.New(errors.ErrCodeUnsupported, "cache clear supports the file backend only (configured: %s)", c.cfg.Cache.Backend)
			}

			fc, err := cache.NewFileCache(c.cfg.Cache.Dir)
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileSystem, err, "open package cache")
			}
			count, err := fc.Clear()
			if err != nil {
				return errors.Wrap(errors.ErrCodeFileSystem, err, "clear %s", fc.Dir())
			}
			if count == 0 {
				printInfo(c.Out, "Cache is empty")
				return nil
			}

			printSuccess(c.Out, "Cleared %d cached entries", count)
			printDetail(c.Out, "Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Cache.Backend == config.BackendRedis {
				fmt.Fprintln(c.Out, "redis://"+c.cfg.Cache.RedisAddr)
				return nil
			}
			fmt.Fprintln(c.Out, c.cfg.Cache.Dir)
			return nil
		},
	}
}
