// Package installer drives the external dependency-resolution tool for one
// build configuration.
//
// An install run is a single pass through fixed stages:
//
//	Start → Validated → DirectoryEnsured → CommandConstructed → Delegated → Succeeded | Failed
//
// The build type is validated before anything touches the disk, so an
// unknown value never creates a directory or spawns a process. The build
// directory build/<build_type> is then created if needed, and the command
//
//	conan install --build missing -s build_type=<bt> -o requirements_for_tests=True [args...] ../..
//
// runs with that directory as its working directory. The child's exit code
// is returned unchanged; there are no retries.
//
// [NewPlan] holds all of the decision making and has no side effects, so the
// directory and argument layout can be tested without a filesystem or a
// child process.
package installer
