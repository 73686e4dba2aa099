package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/musicscience37/htbuild/pkg/buildtype"
	"github.com/musicscience37/htbuild/pkg/recipe"
	"github.com/musicscience37/htbuild/pkg/stage"
)

// packageCommand creates the package staging command.
func (c *CLI) packageCommand() *cobra.Command {
	var (
		source   string
		dest     string
		settings []string
		tests    bool
		force    bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "package",
		Short: "Stage the packaged headers",
		Long: `Copy the headers under <source>/include into <dest>, keeping their
relative paths. Only *.h files are packaged.

The staged package identity is recorded in the package cache. Because the
identity does not depend on settings, a later run for any settings is skipped
while <dest> still exists. Use --force to copy again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			r, err := c.loadRecipe()
			if err != nil {
				return err
			}
			s, err := recipe.ParseSettings(settings)
			if err != nil {
				return err
			}

			if source == "" {
				source = c.root
			}
			if dest == "" {
				dest = filepath.Join(c.root, buildtype.BuildRoot, "package")
			}

			pc, err := c.newCache(ctx, noCache)
			if err != nil {
				return err
			}
			defer pc.Close()

			prog := newProgress(logger)
			stager := stage.New(r, pc, c.cfg.Cache.TTL.Duration, logger)
			res, err := stager.Stage(ctx, stage.Request{
				Source:   source,
				Dest:     dest,
				Settings: s,
				Options:  recipe.Options{RequirementsForTests: tests},
				Force:    force,
			})
			if err != nil {
				return err
			}

			if res.Cached {
				printInfo(c.Out, "Already staged %s", res.Record.Identity)
			} else {
				prog.done("Staged package")
				printSuccess(c.Out, "Staged %s", res.Record.Identity)
			}
			printFile(c.Out, res.Record.Dest)
			printStats(c.Out, len(res.Record.Files), res.Cached)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "directory containing include/ (default project root)")
	cmd.Flags().StringVar(&dest, "dest", "", "staging directory (default build/package)")
	cmd.Flags().StringArrayVarP(&settings, "setting", "s", nil, "setting as key=value (repeatable)")
	cmd.Flags().BoolVar(&tests, "tests", false, "set requirements_for_tests=True")
	cmd.Flags().BoolVar(&force, "force", false, "copy even if the identity is already staged")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "neither read nor record staged identities")
	return cmd
}
