package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/musicscience37/htbuild/pkg/depgraph"
	"github.com/musicscience37/htbuild/pkg/errors"
	"github.com/musicscience37/htbuild/pkg/recipe"
)

// Graph output formats.
const (
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatJSON = "json"
)

// recipeCommand creates the recipe inspection command.
func (c *CLI) recipeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Inspect the package recipe",
	}

	cmd.AddCommand(c.recipeShowCommand())
	cmd.AddCommand(c.recipeRequirementsCommand())
	cmd.AddCommand(c.recipeIDCommand())
	cmd.AddCommand(c.recipeRevisionsCommand())
	cmd.AddCommand(c.recipeExportCommand())
	cmd.AddCommand(c.recipeGraphCommand())

	return cmd
}

// recipeView is the JSON form of "recipe show".
type recipeView struct {
	Revision       int             `json:"revision"`
	Metadata       recipe.Metadata `json:"metadata"`
	Settings       []string        `json:"settings"`
	Options        []string        `json:"options"`
	DefaultOptions recipe.Options  `json:"default_options"`
	Requires       []string        `json:"requires"`
	TestRequires   []string        `json:"test_requires"`
	Identity       recipe.Identity `json:"identity"`
}

func newRecipeView(r *recipe.Recipe) recipeView {
	defaults := recipe.DefaultOptions()
	return recipeView{
		Revision:       r.Revision(),
		Metadata:       r.Metadata(),
		Settings:       recipe.SettingNames,
		Options:        recipe.OptionNames(),
		DefaultOptions: defaults,
		Requires:       r.Requirements().Strings(),
		TestRequires:   r.BuildRequirements(recipe.Options{RequirementsForTests: true}).Strings(),
		Identity:       r.PackageID(recipe.Settings{}, defaults),
	}
}

func (c *CLI) recipeShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show recipe metadata, settings and options",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.loadRecipe()
			if err != nil {
				return err
			}
			view := newRecipeView(r)
			if asJSON {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}

			m := view.Metadata
			printTitle(c.Out, m.Reference())
			printKeyValue(c.Out, "revision", strconv.Itoa(view.Revision))
			printKeyValue(c.Out, "description", m.Description)
			printKeyValue(c.Out, "license", m.License)
			printKeyValue(c.Out, "homepage", m.Homepage)
			printKeyValue(c.Out, "url", m.URL)
			printKeyValue(c.Out, "author", m.Author)
			if len(m.Topics) > 0 {
				printKeyValue(c.Out, "topics", strings.Join(m.Topics, ", "))
			}
			printKeyValue(c.Out, "settings", strings.Join(view.Settings, ", "))
			printKeyValue(c.Out, "options", strings.Join(view.DefaultOptions.Assignments(), ", "))
			printKeyValue(c.Out, "package id", view.Identity.PackageID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func (c *CLI) recipeRequirementsCommand() *cobra.Command {
	var tests bool

	cmd := &cobra.Command{
		Use:   "requirements",
		Short: "List mandatory and build requirements",
		Long: `List the recipe's requirements.

Mandatory requirements are always needed. Build requirements depend on the
requirements_for_tests option, which --tests switches on.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.loadRecipe()
			if err != nil {
				return err
			}
			opts := recipe.Options{RequirementsForTests: tests}

			printTitle(c.Out, "requires")
			printItems(c.Out, r.Requirements().Strings())
			printTitle(c.Out, "build_requires ("+opts.Assignments()[0]+")")
			printItems(c.Out, r.BuildRequirements(opts).Strings())
			return nil
		},
	}

	cmd.Flags().BoolVar(&tests, "tests", false, "set requirements_for_tests=True")
	return cmd
}

func (c *CLI) recipeIDCommand() *cobra.Command {
	var (
		settings []string
		tests    bool
	)

	cmd := &cobra.Command{
		Use:   "id",
		Short: "Print the package identity",
		Long: `Print the package identity as reference:package_id.

The library is header-only, so the identity is the same for every setting
and option. Settings are still checked for well-formedness.`,
		Example: `  htbuild recipe id -s os=Linux -s compiler=gcc -s arch=x86_64 -s build_type=Release`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.loadRecipe()
			if err != nil {
				return err
			}
			s, err := recipe.ParseSettings(settings)
			if err != nil {
				return err
			}
			id := r.PackageID(s, recipe.Options{RequirementsForTests: tests})
			fmt.Fprintln(c.Out, id)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&settings, "setting", "s", nil, "setting as key=value (repeatable)")
	cmd.Flags().BoolVar(&tests, "tests", false, "set requirements_for_tests=True")
	return cmd
}

func (c *CLI) recipeRevisionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "revisions",
		Short: "List the built-in recipe revisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			latest := recipe.Default().Revision()
			for _, r := range recipe.Revisions() {
				title := fmt.Sprintf("revision %d", r.Revision())
				if r.Revision() == latest {
					title += " (latest)"
				}
				printTitle(c.Out, title)
				printKeyValue(c.Out, "requires", listOrNone(r.Requirements().Strings()))
				tooling := r.TestTooling()
				printKeyValue(c.Out, "framework", tooling.Framework.String())
				printKeyValue(c.Out, "mocking", tooling.Mocking.String())
				printKeyValue(c.Out, "benchmark", tooling.Benchmark.String())
			}
			return nil
		},
	}
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func (c *CLI) recipeExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the recipe as " + recipe.ConanfileName,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.loadRecipe()
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return recipe.WriteConanfile(c.Out, r)
			}
			if err := writeFile(output, func(w io.Writer) error { return recipe.WriteConanfile(w, r) }); err != nil {
				return err
			}
			printSuccess(c.Out, "Exported revision %d", r.Revision())
			printFile(c.Out, output)
			printNextStep(c.Out, "Install dependencies", "htbuild install Debug")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) recipeGraphCommand() *cobra.Command {
	var (
		tests  bool
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the requirement graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatDOT, formatSVG, formatJSON:
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want %s, %s or %s)", format, formatDOT, formatSVG, formatJSON)
			}
			r, err := c.loadRecipe()
			if err != nil {
				return err
			}
			g := depgraph.Build(r, recipe.Options{RequirementsForTests: tests})
			loggerFromContext(cmd.Context()).Debug("built requirement graph", "nodes", g.NodeCount(), "edges", g.EdgeCount())

			var data []byte
			switch format {
			case formatJSON:
				var buf bytes.Buffer
				if err := depgraph.WriteJSON(g, &buf); err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "encode requirement graph")
				}
				data = buf.Bytes()
			case formatSVG:
				data, err = depgraph.RenderSVG(cmd.Context(), depgraph.ToDOT(g))
				if err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "render requirement graph")
				}
			default:
				data = []byte(depgraph.ToDOT(g))
			}

			if output == "" || output == "-" {
				_, err := c.Out.Write(data)
				return err
			}
			if err := writeFile(output, func(w io.Writer) error { _, err := w.Write(data); return err }); err != nil {
				return err
			}
			printSuccess(c.Out, "Rendered %d requirements", g.NodeCount()-1)
			printFile(c.Out, output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&tests, "tests", false, "include requirements_for_tests build requirements")
	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot, svg or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// writeFile creates path and hands it to write, closing it afterwards.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileSystem, err, "create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeFileSystem, err, "close %s", path)
	}
	return nil
}
