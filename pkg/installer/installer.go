package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/musicscience37/htbuild/pkg/errors"
	"github.com/musicscience37/htbuild/pkg/observability"
)

// Options configures an [Installer]. Zero fields take defaults from
// [Options.WithDefaults].
type Options struct {
	// Tool is the resolution executable (default "conan").
	Tool string
	// Out receives the "> run command:" diagnostic line (default os.Stdout).
	Out io.Writer
	// Logger receives stage transitions (default log.Default()).
	Logger *log.Logger
}

// WithDefaults returns a copy of o with unset fields filled in.
func (o Options) WithDefaults() Options {
	if o.Tool == "" {
		o.Tool = DefaultTool
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// Request is one install invocation.
type Request struct {
	BuildType string
	Args      []string
}

// Result reports how far a run got.
type Result struct {
	Plan     *Plan
	Stage    Stage
	ExitCode int
}

// Installer provisions build directories under a project root and
// delegates to the resolution tool.
type Installer struct {
	root   string
	runner Runner
	opts   Options
}

// New creates an installer for the project at root.
func New(root string, runner Runner, opts Options) *Installer {
	return &Installer{root: root, runner: runner, opts: opts.WithDefaults()}
}

// Install runs the stages once. On success the error is nil and
// Result.ExitCode carries the child's exit code, which may be non-zero.
// An error means the run stopped before or while starting the child:
// INVALID_BUILD_TYPE, FILESYSTEM or CHILD_PROCESS.
func (i *Installer) Install(ctx context.Context, req Request) (res *Result, err error) {
	logger := i.opts.Logger
	res = &Result{Stage: StageStart, ExitCode: -1}

	plan, err := NewPlan(i.root, req.BuildType, req.Args, i.opts.Tool)
	if err != nil {
		return res, err
	}
	res.Plan = plan
	i.advance(res, StageValidated, "build_type", plan.BuildType)

	hooks := observability.Install()
	start := time.Now()
	hooks.OnInstallStart(ctx, plan.BuildType.String())
	defer func() {
		hooks.OnInstallComplete(ctx, plan.BuildType.String(), res.ExitCode, time.Since(start), err)
	}()

	if err := EnsureDir(plan.BuildDir); err != nil {
		return res, err
	}
	i.advance(res, StageDirectoryEnsured, "dir", plan.BuildDir)

	i.advance(res, StageCommandConstructed, "argc", len(plan.Command.Argv()))
	fmt.Fprintf(i.opts.Out, "> run command: %s\n", plan.Command)

	i.advance(res, StageDelegated, "program", plan.Command.Program)
	code, err := i.runner.Run(ctx, plan.Command)
	if err != nil {
		res.Stage = StageFailed
		return res, err
	}
	res.ExitCode = code
	if code == 0 {
		i.advance(res, StageSucceeded)
	} else {
		i.advance(res, StageFailed, "exit_code", code)
	}
	logger.Debug("install finished", "exit_code", code)
	return res, nil
}

func (i *Installer) advance(res *Result, next Stage, keyvals ...any) {
	res.Stage = next
	i.opts.Logger.Debug("install "+next.String(), keyvals...)
}

// EnsureDir creates dir and any missing parents. An existing directory is
// left as is.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeFileSystem, err, "create build directory %s", dir)
	}
	return nil
}
