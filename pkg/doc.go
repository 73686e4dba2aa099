// Package pkg provides the libraries behind htbuild, the build-environment
// tool for the header-only C++ library cpp_hash_tables.
//
// # Overview
//
// htbuild does two things. It describes the library as a Conan package
// (the recipe) and it provisions one build directory per build type by
// delegating dependency installation to conan. The pkg directory is
// organized as follows:
//
//  1. [buildtype] - The closed set of build types and their directories
//  2. [recipe] - Metadata, requirements, packaging and identity rules
//  3. [installer] - Build directory provisioning and the conan install command
//  4. [stage] - Packaging into a staging area, with reuse by identity
//  5. [depgraph] - The requirement graph as DOT, SVG or JSON
//  6. [cache] - Package record storage (file, Redis, or none)
//
// Supporting packages: [errors] for coded errors, [observability] for
// install and cache hooks, and [buildinfo] for version stamping.
//
// # Data Flow
//
//	htbuild install <build_type> [args...]
//	         ↓
//	    [buildtype] (validate)
//	         ↓
//	    [installer] (mkdir build/<build_type>, build command)
//	         ↓
//	    conan install --build missing -s build_type=<build_type> \
//	        -o requirements_for_tests=True [args...] ../..
//	         ↓
//	    exit code of conan
//
// # Quick Start
//
//	import (
//	    "context"
//
//	    "github.com/musicscience37/htbuild/pkg/installer"
//	)
//
//	inst := installer.New(".", installer.ExecRunner{}, installer.Options{})
//	res, err := inst.Install(context.Background(), installer.Request{
//	    BuildType: "Debug",
//	    Args:      []string{"-pr", "myprofile"},
//	})
//	if err != nil {
//	    // INVALID_BUILD_TYPE, FILESYSTEM or CHILD_PROCESS
//	}
//	os.Exit(res.ExitCode)
//
// [buildtype]: https://pkg.go.dev/github.com/musicscience37/htbuild/pkg/buildtype
// [recipe]: https://pkg.go.dev/github.com/musicscience37/htbuild/pkg/recipe
// [installer]: https://pkg.go.dev/github.com/musicscience37/htbuild/pkg/installer
// [stage]: https://pkg.go.dev/github.com/musicscience37/htbuild/pkg/stage
// [depgraph]: https://pkg.go.dev/github.com/musicscience37/htbuild/pkg/depgraph
// [cache]: https://pkg.go.dev/github.com/musicscience37/htbuild/pkg/cache
// [errors]: https://pkg.go.dev/github.com/musicscience37/htbuild/pkg/errors
// [observability]: https://pkg.go.dev/github.com/musicscience37/htbuild/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/musicscience37/htbuild/pkg/buildinfo
package pkg
