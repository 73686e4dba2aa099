package cli

import (
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/musicscience37/htbuild/pkg/buildtype"
	"github.com/musicscience37/htbuild/pkg/installer"
)

// installCommand creates the install command.
func (c *CLI) installCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <build_type> [conan args...]",
		Short: "Install dependencies into build/<build_type>",
		Long: `Install the recipe's dependencies for one build type.

The build directory build/<build_type> is created under the project root if
needed, then the following runs inside it:

  conan install --build missing -s build_type=<build_type> \
      -o requirements_for_tests=True [conan args...] ../..

Everything after the build type is passed to conan unchanged. htbuild exits
with conan's exit code.

Build types: ` + strings.Join(buildtype.Names(), ", "),
		Example: `  htbuild install Debug
  htbuild install Release -pr myprofile`,
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: buildtype.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context()).With("run", uuid.NewString())

			inst := installer.New(c.root, c.Runner, installer.Options{
				Tool:   c.cfg.Tool,
				Out:    c.Out,
				Logger: logger,
			})
			res, err := inst.Install(cmd.Context(), installer.Request{
				BuildType: args[0],
				Args:      passthrough(args[1:]),
			})
			if err != nil {
				return err
			}
			if res.ExitCode != 0 {
				logger.Debug("resolution tool failed", "exit_code", res.ExitCode)
				return &ExitError{Code: res.ExitCode}
			}
			return nil
		},
	}

	// Flags after the build type belong to conan.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

// passthrough drops a leading "--" separator, which is accepted but not
// required.
func passthrough(args []string) []string {
	if len(args) > 0 && args[0] == "--" {
		return args[1:]
	}
	return args
}
