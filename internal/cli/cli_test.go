package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/musicscience37/htbuild/internal/config"
	"github.com/musicscience37/htbuild/pkg/errors"
	"github.com/musicscience37/htbuild/pkg/installer"
	"github.com/musicscience37/htbuild/pkg/observability"
	"github.com/musicscience37/htbuild/pkg/recipe"
)

type fakeRunner struct {
	code  int
	err   error
	calls []installer.Command
}

func (f *fakeRunner) Run(_ context.Context, cmd installer.Command) (int, error) {
	f.calls = append(f.calls, cmd)
	return f.code, f.err
}

type testCLI struct {
	*CLI
	out    *bytes.Buffer
	logs   *bytes.Buffer
	runner *fakeRunner
	root   string
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	for _, env := range []string{config.EnvTool, config.EnvRecipe, config.EnvCacheBackend, config.EnvRedisAddr, config.EnvMetricsFile} {
		t.Setenv(env, "")
	}
	t.Setenv(config.EnvCacheDir, filepath.Join(t.TempDir(), "cache"))

	tc := &testCLI{
		out:    &bytes.Buffer{},
		logs:   &bytes.Buffer{},
		runner: &fakeRunner{},
		root:   t.TempDir(),
	}
	tc.CLI = New(tc.logs, LogInfo)
	tc.CLI.Out = tc.out
	tc.CLI.Runner = tc.runner
	return tc
}

// run executes a fresh command tree rooted at the test project.
func (tc *testCLI) run(args ...string) error {
	tc.out.Reset()
	cmd := tc.CLI.RootCommand()
	cmd.SetArgs(append([]string{"--root", tc.root}, args...))
	return cmd.ExecuteContext(context.Background())
}

func TestInstallPassesThroughArgs(t *testing.T) {
	tc := newTestCLI(t)

	if err := tc.run("install", "Release", "-pr", "myprofile"); err != nil {
		t.Fatalf("install: %v", err)
	}
	if len(tc.runner.calls) != 1 {
		t.Fatalf("runner called %d times, want 1", len(tc.runner.calls))
	}
	cmd := tc.runner.calls[0]
	want := []string{"conan", "install", "--build", "missing", "-s", "build_type=Release",
		"-o", "requirements_for_tests=True", "-pr", "myprofile", filepath.Join("..", "..")}
	if got := cmd.Argv(); strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("argv = %v, want %v", got, want)
	}
	if cmd.Dir != filepath.Join(tc.root, "build", "Release") {
		t.Errorf("Dir = %q", cmd.Dir)
	}
	if info, err := os.Stat(cmd.Dir); err != nil || !info.IsDir() {
		t.Errorf("build directory not created: %v", err)
	}
	if !strings.Contains(tc.out.String(), "> run command: [conan install --build missing") {
		t.Errorf("output = %q", tc.out.String())
	}
}

func TestInstallDefaultRoot(t *testing.T) {
	tc := newTestCLI(t)
	t.Chdir(tc.root)

	cmd := tc.CLI.RootCommand()
	cmd.SetArgs([]string{"install", "Release"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("install: %v", err)
	}
	got := tc.runner.calls[0]
	if last := got.Args[len(got.Args)-1]; last != filepath.Join("..", "..") {
		t.Errorf("recipe path = %q, want %q", last, filepath.Join("..", ".."))
	}
	if got.Dir != filepath.Join("build", "Release") {
		t.Errorf("Dir = %q", got.Dir)
	}
	if !strings.HasSuffix(strings.TrimSpace(tc.out.String()), "requirements_for_tests=True "+filepath.Join("..", "..")+"]") {
		t.Errorf("output = %q", tc.out.String())
	}
}

func TestInstallFlagsAfterBuildTypeAreNotParsed(t *testing.T) {
	tc := newTestCLI(t)

	// -v and --root would be htbuild flags before the build type.
	if err := tc.run("install", "Debug", "--", "-v", "--root", "elsewhere"); err != nil {
		t.Fatalf("install: %v", err)
	}
	args := tc.runner.calls[0].Args
	tail := args[len(args)-4:]
	if strings.Join(tail, " ") != "-v --root elsewhere "+filepath.Join("..", "..") {
		t.Errorf("args tail = %v", tail)
	}
	for _, a := range args {
		if a == "--" {
			t.Errorf("separator leaked into args: %v", args)
		}
	}
}

func TestInstallRelaysExitCode(t *testing.T) {
	for _, code := range []int{1, 2} {
		tc := newTestCLI(t)
		tc.runner.code = code

		err := tc.run("install", "Debug")
		exitErr, ok := err.(*ExitError)
		if !ok {
			t.Fatalf("exit %d: err = %v, want *ExitError", code, err)
		}
		if exitErr.Code != code {
			t.Errorf("ExitError.Code = %d, want %d", exitErr.Code, code)
		}
	}
}

func TestInstallInvalidBuildType(t *testing.T) {
	tc := newTestCLI(t)

	err := tc.run("install", "Foo")
	if !errors.Is(err, errors.ErrCodeInvalidBuildType) {
		t.Fatalf("err = %v, want INVALID_BUILD_TYPE", err)
	}
	if len(tc.runner.calls) != 0 {
		t.Error("runner should not be called")
	}
	if _, err := os.Stat(filepath.Join(tc.root, "build")); !os.IsNotExist(err) {
		t.Error("no build directory should be created")
	}
}

func TestInstallRequiresBuildType(t *testing.T) {
	tc := newTestCLI(t)
	if err := tc.run("install"); err == nil {
		t.Fatal("install without build type should fail")
	}
}

func TestInstallUsesConfiguredTool(t *testing.T) {
	tc := newTestCLI(t)
	if err := os.WriteFile(filepath.Join(tc.root, config.FileName), []byte("tool = \"conan1\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := tc.run("install", "MinSizeRel"); err != nil {
		t.Fatalf("install: %v", err)
	}
	if got := tc.runner.calls[0].Program; got != "conan1" {
		t.Errorf("Program = %q, want conan1", got)
	}
}

func TestInstallLogsRunID(t *testing.T) {
	tc := newTestCLI(t)
	if err := tc.run("-v", "install", "Debug"); err != nil {
		t.Fatalf("install: %v", err)
	}
	if !strings.Contains(tc.logs.String(), "run=") {
		t.Errorf("debug logs should carry a run id: %q", tc.logs.String())
	}
}

func TestRecipeShowJSON(t *testing.T) {
	tc := newTestCLI(t)
	if err := tc.run("recipe", "show", "--json"); err != nil {
		t.Fatalf("recipe show: %v", err)
	}

	var view recipeView
	if err := json.Unmarshal(tc.out.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v\n%s", err, tc.out.String())
	}
	if view.Metadata.Name != "cpp_hash_tables" || view.Metadata.License != "Apache-2.0" {
		t.Errorf("Metadata = %+v", view.Metadata)
	}
	if strings.Join(view.Settings, ",") != "os,compiler,build_type,arch" {
		t.Errorf("Settings = %v", view.Settings)
	}
	if view.DefaultOptions.RequirementsForTests {
		t.Error("requirements_for_tests should default to false")
	}
	if len(view.TestRequires) != 3 {
		t.Errorf("TestRequires = %v", view.TestRequires)
	}
	if view.Identity != recipe.HeaderOnlyID(view.Metadata) {
		t.Errorf("Identity = %v", view.Identity)
	}
}

func TestRecipeShowText(t *testing.T) {
	tc := newTestCLI(t)
	if err := tc.run("recipe", "show"); err != nil {
		t.Fatalf("recipe show: %v", err)
	}
	for _, want := range []string{"cpp_hash_tables/0.1.0", "Hash tables in C++.", "requirements_for_tests=False"} {
		if !strings.Contains(tc.out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, tc.out.String())
		}
	}
}

func TestRecipeRequirements(t *testing.T) {
	tc := newTestCLI(t)

	if err := tc.run("recipe", "requirements"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(tc.out.String(), "catch2") {
		t.Errorf("test tooling listed without --tests:\n%s", tc.out.String())
	}

	if err := tc.run("recipe", "requirements", "--tests"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"catch2/3.0.0pre4@MusicScience37+conan-extra-packages/stable",
		"trompeloeil/42",
		"cpp_stat_bench/0.5.0@MusicScience37+cpp-stat-bench/stable",
	} {
		if !strings.Contains(tc.out.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRecipeRequirementsRevision(t *testing.T) {
	tc := newTestCLI(t)
	if err := tc.run("--revision", "1", "recipe", "requirements"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tc.out.String(), "fmt/8.0.1") {
		t.Errorf("revision 1 should require fmt:\n%s", tc.out.String())
	}

	if err := tc.run("--revision", "9", "recipe", "requirements"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown revision: err = %v, want NOT_FOUND", err)
	}
}

func TestRecipeIDIgnoresSettings(t *testing.T) {
	tc := newTestCLI(t)

	if err := tc.run("recipe", "id", "-s", "compiler=gcc", "-s", "arch=x86_64", "-s", "build_type=Release"); err != nil {
		t.Fatal(err)
	}
	first := tc.out.String()

	if err := tc.run("recipe", "id", "-s", "compiler=clang", "-s", "arch=arm64", "-s", "build_type=Debug", "--tests"); err != nil {
		t.Fatal(err)
	}
	if tc.out.String() != first {
		t.Errorf("identity changed with settings: %q vs %q", first, tc.out.String())
	}
	if !strings.HasPrefix(first, "cpp_hash_tables/0.1.0:") {
		t.Errorf("identity = %q", first)
	}
}

func TestRecipeIDRejectsUnknownSetting(t *testing.T) {
	tc := newTestCLI(t)
	if err := tc.run("recipe", "id", "-s", "libc=musl"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestRecipeRevisions(t *testing.T) {
	tc := newTestCLI(t)
	if err := tc.run("recipe", "revisions"); err != nil {
		t.Fatal(err)
	}
	out := tc.out.String()
	if !strings.Contains(out, "revision 1") || !strings.Contains(out, "revision 2 (latest)") {
		t.Errorf("output:\n%s", out)
	}
}

func TestRecipeExport(t *testing.T) {
	tc := newTestCLI(t)
	path := filepath.Join(tc.root, recipe.ConanfileName)

	if err := tc.run("recipe", "export", "-o", path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"class CppHashTablesConan(ConanFile):", "self.info.header_only()"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("conanfile missing %q", want)
		}
	}
}

func TestRecipeGraph(t *testing.T) {
	tc := newTestCLI(t)
	if err := tc.run("recipe", "graph", "--tests"); err != nil {
		t.Fatal(err)
	}
	out := tc.out.String()
	if !strings.HasPrefix(out, "digraph G {") || !strings.Contains(out, "trompeloeil/42") {
		t.Errorf("DOT output:\n%s", out)
	}

	if err := tc.run("recipe", "graph", "-f", "json"); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(tc.out.Bytes(), &doc); err != nil || len(doc.Nodes) != 1 {
		t.Errorf("JSON graph without --tests: %v %s", err, tc.out.String())
	}

	if err := tc.run("recipe", "graph", "--format", "png"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestRecipeFromFile(t *testing.T) {
	tc := newTestCLI(t)
	path := filepath.Join(tc.root, "recipe.toml")
	content := `revision = 5

[metadata]
name = "cpp_hash_tables"
version = "0.3.0"

[test_requirements]
framework = "catch2/3.4.0"
mocking = "trompeloeil/44"
benchmark = "cpp_stat_bench/0.7.0"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if err := tc.run("--recipe", path, "recipe", "id"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(tc.out.String(), "cpp_hash_tables/0.3.0:") {
		t.Errorf("identity = %q", tc.out.String())
	}

	if err := tc.run("--recipe", path, "--revision", "1", "recipe", "id"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func writeHeaders(t *testing.T, root string) {
	t.Helper()
	dir := filepath.Join(root, "include", "hash_tables")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range map[string]string{"map.h": "#pragma once\n", "notes.md": "not packaged\n"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestPackageReusesIdentityAcrossSettings(t *testing.T) {
	tc := newTestCLI(t)
	writeHeaders(t, tc.root)

	if err := tc.run("package", "-s", "compiler=gcc", "-s", "arch=x86_64"); err != nil {
		t.Fatalf("first package: %v", err)
	}
	if !strings.Contains(tc.out.String(), "fresh") {
		t.Errorf("first run should stage fresh:\n%s", tc.out.String())
	}
	staged := filepath.Join(tc.root, "build", "package", "include", "hash_tables", "map.h")
	if _, err := os.Stat(staged); err != nil {
		t.Fatalf("header not staged: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(staged), "notes.md")); !os.IsNotExist(err) {
		t.Error("non-header file should not be staged")
	}

	if err := tc.run("package", "-s", "compiler=clang", "-s", "arch=arm64"); err != nil {
		t.Fatalf("second package: %v", err)
	}
	if !strings.Contains(tc.out.String(), "cached") {
		t.Errorf("second run should be a cache hit:\n%s", tc.out.String())
	}

	if err := tc.run("package", "--force"); err != nil {
		t.Fatalf("forced package: %v", err)
	}
	if !strings.Contains(tc.out.String(), "fresh") {
		t.Errorf("--force should stage fresh:\n%s", tc.out.String())
	}
}

func TestPackageNoCache(t *testing.T) {
	tc := newTestCLI(t)
	writeHeaders(t, tc.root)

	for i := 0; i < 2; i++ {
		if err := tc.run("package", "--no-cache"); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(tc.out.String(), "fresh") {
			t.Errorf("run %d should not hit the cache:\n%s", i, tc.out.String())
		}
	}
}

func TestPackageMissingSources(t *testing.T) {
	tc := newTestCLI(t)
	if err := tc.run("package"); !errors.Is(err, errors.ErrCodeFileSystem) {
		t.Errorf("err = %v, want FILESYSTEM", err)
	}
}

func TestCachePathAndClear(t *testing.T) {
	tc := newTestCLI(t)
	writeHeaders(t, tc.root)

	if err := tc.run("cache", "path"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(tc.out.String()); got != os.Getenv(config.EnvCacheDir) {
		t.Errorf("cache path = %q, want %q", got, os.Getenv(config.EnvCacheDir))
	}

	if err := tc.run("cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tc.out.String(), "Cache is empty") {
		t.Errorf("output = %q", tc.out.String())
	}

	if err := tc.run("package"); err != nil {
		t.Fatal(err)
	}
	if err := tc.run("cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tc.out.String(), "Cleared 1 cached entries") {
		t.Errorf("output = %q", tc.out.String())
	}
}

func TestCacheClearRequiresFileBackend(t *testing.T) {
	tc := newTestCLI(t)
	t.Setenv(config.EnvCacheBackend, config.BackendNone)
	if err := tc.run("cache", "clear"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", err)
	}
}

func TestVersion(t *testing.T) {
	tc := newTestCLI(t)
	if err := tc.run("--version"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(tc.out.String(), "htbuild version ") {
		t.Errorf("version output = %q", tc.out.String())
	}
}

func TestCompletion(t *testing.T) {
	tc := newTestCLI(t)
	if err := tc.run("completion", "bash"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tc.out.String(), "htbuild") {
		t.Error("bash completion should mention htbuild")
	}
}

func TestExitErrorMessage(t *testing.T) {
	if got := (&ExitError{Code: 3}).Error(); got != "exit status 3" {
		t.Errorf("Error() = %q", got)
	}
}

func TestVerbosePackageLogsCacheEvents(t *testing.T) {
	tc := newTestCLI(t)
	t.Cleanup(observability.Reset)
	writeHeaders(t, tc.root)

	if err := tc.run("-v", "package"); err != nil {
		t.Fatal(err)
	}
	if err := tc.run("-v", "package"); err != nil {
		t.Fatal(err)
	}
	logs := tc.logs.String()
	for _, want := range []string{"cache miss", "cache set", "cache hit"} {
		if !strings.Contains(logs, want) {
			t.Errorf("logs missing %q:\n%s", want, logs)
		}
	}
}

func TestMetricsFile(t *testing.T) {
	tc := newTestCLI(t)
	t.Cleanup(observability.Reset)
	tc.runner.code = 1
	path := filepath.Join(t.TempDir(), "htbuild.prom")

	if err := tc.run("--metrics-file", path, "install", "Debug"); err == nil {
		t.Fatal("expected ExitError")
	}
	if err := tc.CLI.FlushMetrics(); err != nil {
		t.Fatalf("FlushMetrics: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `htbuild_installs_total{build_type="Debug",result="failure"} 1`) {
		t.Errorf("metrics file:\n%s", data)
	}
}

func TestFlushMetricsWithoutFile(t *testing.T) {
	tc := newTestCLI(t)
	t.Cleanup(observability.Reset)
	if err := tc.run("recipe", "id"); err != nil {
		t.Fatal(err)
	}
	if err := tc.CLI.FlushMetrics(); err != nil {
		t.Errorf("FlushMetrics without a file = %v", err)
	}
}
