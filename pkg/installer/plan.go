package installer

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/musicscience37/htbuild/pkg/buildtype"
	"github.com/musicscience37/htbuild/pkg/recipe"
)

// DefaultTool is the dependency-resolution executable.
const DefaultTool = "conan"

// Command is a process invocation.
type Command struct {
	Program string
	Args    []string
	Dir     string
}

// Argv returns the program followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Program}, c.Args...)
}

// String formats the command for diagnostics.
func (c Command) String() string {
	return fmt.Sprint(c.Argv())
}

// Plan is everything an install run will do, computed up front.
type Plan struct {
	BuildType buildtype.Type
	BuildDir  string
	Command   Command
}

// NewPlan validates buildType and computes the build directory under root
// and the install command. passthrough is copied verbatim, in order, between
// the fixed flags and the recipe path.
//
// The test requirements option is always enabled: this entry point exists to
// prepare a tree that can build and run the tests.
func NewPlan(root, buildType string, passthrough []string, tool string) (*Plan, error) {
	bt, err := buildtype.Parse(buildType)
	if err != nil {
		return nil, err
	}
	if tool == "" {
		tool = DefaultTool
	}

	// The build directory is always root/build/<type>, so the recipe sits
	// two levels up whatever form root takes.
	dir := bt.Dir(root)
	recipePath := filepath.Join("..", "..")

	args := []string{
		"install",
		"--build", "missing",
		"-s", recipe.SettingBuildType + "=" + bt.String(),
	}
	for _, opt := range (recipe.Options{RequirementsForTests: true}).Assignments() {
		args = append(args, "-o", opt)
	}
	args = append(args, slices.Clone(passthrough)...)
	args = append(args, recipePath)

	return &Plan{
		BuildType: bt,
		BuildDir:  dir,
		Command: Command{
			Program: tool,
			Args:    args,
			Dir:     dir,
		},
	}, nil
}
