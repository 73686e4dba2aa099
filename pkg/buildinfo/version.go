// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/musicscience37/htbuild/pkg/buildinfo.Version=v0.1.0 \
//	    -X github.com/musicscience37/htbuild/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/musicscience37/htbuild/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/htbuild
package buildinfo

import "fmt"

var (
	// Version is the release of htbuild, which tracks the library release
	// it provisions.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return "{{.Name}} version {{.Version}}\n" + fmt.Sprintf("commit: %s\nbuilt: %s\n", Commit, Date)
}
